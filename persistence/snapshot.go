// Package persistence stores decoded records on disk, XDR encoded, so they
// can be inspected or re-encoded later without the original input.
package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/jumpkick/preon/binding"
	"github.com/jumpkick/preon/shared"
	"github.com/nullstyle/go-xdr/xdr3"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("invalid snapshot name")

const (
	OwnerReadWrite     = os.FileMode(0600)
	OwnerReadWriteExec = os.FileMode(0700)

	snapshotExt = ".xdr"
)

type Snapshot struct {
	Schema  string
	Entries []SnapshotEntry
}

type SnapshotEntry struct {
	Name   string
	Value  int64
	Offset uint64
	Bits   uint64
}

func NewSnapshot(schema string, rec *binding.Record) *Snapshot {
	s := &Snapshot{Schema: schema}
	for _, e := range rec.Entries() {
		s.Entries = append(s.Entries, SnapshotEntry{Name: e.Name, Value: e.Value, Offset: e.Offset, Bits: e.Bits})
	}
	return s
}

// Record rebuilds the decoded record.
func (s *Snapshot) Record() *binding.Record {
	rec := binding.NewRecord()
	for _, e := range s.Entries {
		rec.Put(binding.Entry{Name: e.Name, Value: e.Value, Offset: e.Offset, Bits: e.Bits})
	}
	return rec
}

func GetSchemaDir(datadir string, schema string) (string, error) {
	if err := checkName(schema); err != nil {
		return "", err
	}
	return filepath.Join(datadir, schema), nil
}

func GetSnapshotFilename(datadir string, schema string, name string) (string, error) {
	dir, err := GetSchemaDir(datadir, schema)
	if err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(dir, name+snapshotExt), nil
}

// checkName rejects names which would resolve outside of their directory.
func checkName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func PersistSnapshot(filename string, snapshot *Snapshot) error {
	var w bytes.Buffer
	_, err := xdr.Marshal(&w, snapshot)
	if err != nil {
		return fmt.Errorf("serialization failure: %v", err)
	}

	err = os.MkdirAll(filepath.Dir(filename), OwnerReadWriteExec)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("dir creation failure: %v", err)
	}

	err = ioutil.WriteFile(filename, w.Bytes(), OwnerReadWrite)
	if err != nil {
		return fmt.Errorf("write to disk failure: %v", err)
	}

	return nil
}

// FetchSnapshot reads a snapshot, checking it belongs to schema unless schema
// is empty.
func FetchSnapshot(filename string, schema string) (*Snapshot, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrRecordNotExist
		}

		return nil, fmt.Errorf("read file failure: %v", err)
	}

	snapshot := &Snapshot{}
	_, err = xdr.Unmarshal(bytes.NewReader(data), snapshot)
	if err != nil {
		return nil, fmt.Errorf("deserialization failure: %v", err)
	}

	if schema != "" && snapshot.Schema != schema {
		return nil, shared.ConfigMismatchError{
			Param:    "schema",
			Expected: schema,
			Found:    snapshot.Schema,
		}
	}

	return snapshot, nil
}
