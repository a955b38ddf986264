package persistence

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// FileReader is a buffered reader over a binary input file.
type FileReader struct {
	file *os.File
	buf  *bufio.Reader
}

// A compile time check to ensure that FileReader fully implements io.ReadCloser.
var _ io.ReadCloser = (*FileReader)(nil)

func NewFileReader(name string) (*FileReader, error) {
	file, err := os.OpenFile(name, os.O_RDONLY, OwnerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %v", err)
	}

	return &FileReader{
		file: file,
		buf:  bufio.NewReader(file),
	}, nil
}

func (r *FileReader) Read(p []byte) (int, error) {
	return r.buf.Read(p)
}

// Size returns the file size in bytes.
func (r *FileReader) Size() (uint64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to get stats for input file: %v", err)
	}
	return uint64(info.Size()), nil
}

// Width returns the number of bits in the file.
func (r *FileReader) Width() (uint64, error) {
	size, err := r.Size()
	if err != nil {
		return 0, err
	}
	return size * 8, nil
}

func (r *FileReader) Close() error {
	r.buf = nil
	return r.file.Close()
}
