package binding

import (
	"fmt"
	"github.com/jumpkick/preon/expr"
)

// Entry is a single decoded field value, with its location in the stream.
type Entry struct {
	Name   string
	Value  int64
	Offset uint64
	Bits   uint64
}

// Record holds field values in declaration order. It resolves expression
// references by field name.
type Record struct {
	entries []Entry
	index   map[string]int
}

func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// Set assigns a value, appending the field if it's new.
func (r *Record) Set(name string, value int64) {
	r.Put(Entry{Name: name, Value: value})
}

// Put stores an entry, replacing any entry of the same name.
func (r *Record) Put(e Entry) {
	if i, ok := r.index[e.Name]; ok {
		r.entries[i] = e
		return
	}
	r.index[e.Name] = len(r.entries)
	r.entries = append(r.entries, e)
}

func (r *Record) Get(name string) (int64, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %v", expr.ErrUnresolved, name)
	}
	return r.entries[i].Value, nil
}

func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Entries returns a copy of the entries, in declaration order.
func (r *Record) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

func (r *Record) Len() int {
	return len(r.entries)
}

// Bits returns the total number of bits the decoded entries occupy.
func (r *Record) Bits() uint64 {
	var n uint64
	for _, e := range r.entries {
		n += e.Bits
	}
	return n
}

var _ expr.Resolver = (*Record)(nil)
