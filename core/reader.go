package agg

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileReader provides the input as one immutable byte buffer. The core
// never opens files itself; a reader is handed in by the caller.
type FileReader interface {
	Open(filename string) error
	Close() error
	Size() int64
	// Bytes returns the whole input. The slice stays valid until Close.
	Bytes() ([]byte, error)
}

// FileDiskReader reads the file into memory with chunked pread calls.
type FileDiskReader struct {
	file *os.File
	size int64
	data []byte
}

// FileMmapReader maps the file read-only.
type FileMmapReader struct {
	size int64
	data []byte
}

var preadChunkSize = int64(os.Getpagesize() * 64)

func NewFileDiskReader() FileReader { return &FileDiskReader{} }

func (r *FileDiskReader) Open(filename string) error {
	if r.file != nil {
		return fmt.Errorf("file already open")
	}
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("cannot stat file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

func (r *FileDiskReader) Size() int64 { return r.size }

func (r *FileDiskReader) Bytes() ([]byte, error) {
	if r.file == nil {
		return nil, fmt.Errorf("file is not open")
	}
	if r.data != nil {
		return r.data, nil
	}
	data := make([]byte, r.size)
	fd := int(r.file.Fd())
	var total int64
	for total < r.size {
		n, err := unix.Pread(fd, data[total:min(total+preadChunkSize, r.size)], total)
		if err != nil {
			return nil, fmt.Errorf("pread at %d: %w", total, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("short read at %d of %d", total, r.size)
		}
		total += int64(n)
	}
	r.data = data
	return r.data, nil
}

func (r *FileDiskReader) Close() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}
	err := r.file.Close()
	r.file = nil
	r.data = nil
	r.size = 0
	return err
}

func NewFileMmapReader() FileReader { return &FileMmapReader{} }

func (r *FileMmapReader) Open(filename string) error {
	if r.data != nil {
		return fmt.Errorf("file already open")
	}
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	r.size = info.Size()
	if r.size == 0 {
		r.data = []byte{}
		return nil
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(r.size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return fmt.Errorf("cannot mmap file: %w", err)
	}
	r.data = data
	return nil
}

func (r *FileMmapReader) Size() int64 { return r.size }

func (r *FileMmapReader) Bytes() ([]byte, error) {
	if r.data == nil {
		return nil, fmt.Errorf("file is not open")
	}
	return r.data, nil
}

func (r *FileMmapReader) Close() error {
	if r.data == nil {
		return fmt.Errorf("file already closed")
	}
	var err error
	if r.size > 0 {
		err = unix.Munmap(r.data)
	}
	r.data = nil
	r.size = 0
	return err
}
