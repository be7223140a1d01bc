// Package statefile reads and writes substream state files: flat sequences
// of records, each exactly mt.N 32-bit words in host byte order, with no
// header, footer or delimiter.
package statefile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hsklein/mtstates/internal/fileutil"
	"github.com/hsklein/mtstates/internal/mt"
)

// RecordSize is the size in bytes of one record.
const RecordSize = mt.N * 4

// ErrTruncated is returned when a file is not a whole number of records.
var ErrTruncated = errors.New("state file is not a whole number of records")

// Writer appends records to a state file. Nothing is visible at the target
// path until Commit.
type Writer struct {
	file  *fileutil.AtomicFile
	buf   *bufio.Writer
	order binary.ByteOrder
	n     int
}

// Create starts a state file at path, replacing any existing file on
// Commit. A nil order means host byte order.
func Create(path string, order binary.ByteOrder) (*Writer, error) {
	if order == nil {
		order = binary.NativeEndian
	}
	f, err := fileutil.CreateAtomic(path, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Writer{
		file:  f,
		buf:   bufio.NewWriterSize(f, 16*RecordSize),
		order: order,
	}, nil
}

// WriteState appends one record. A record of the wrong size is rejected
// before any of it is written.
func (w *Writer) WriteState(words []uint32) error {
	if len(words) != mt.N {
		return fmt.Errorf("record %d: %w: got %d words, want %d", w.n, mt.ErrStateSize, len(words), mt.N)
	}

	var rec [RecordSize]byte
	for i, v := range words {
		w.order.PutUint32(rec[i*4:], v)
	}
	if _, err := w.buf.Write(rec[:]); err != nil {
		return fmt.Errorf("write record %d: %w", w.n, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.n
}

// Commit flushes the records and moves the file into place.
func (w *Writer) Commit() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Abort()
		return fmt.Errorf("flush %s: %w", w.file.Path(), err)
	}
	if err := w.file.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", w.file.Path(), err)
	}
	return nil
}

// Abort discards the file. It is a no-op after Commit.
func (w *Writer) Abort() {
	w.file.Abort()
}

// Decode splits raw file contents into records.
func Decode(data []byte, order binary.ByteOrder) ([][]uint32, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if order == nil {
		order = binary.NativeEndian
	}

	records := make([][]uint32, len(data)/RecordSize)
	for i := range records {
		rec := make([]uint32, mt.N)
		base := i * RecordSize
		for j := range rec {
			rec[j] = order.Uint32(data[base+4*j:])
		}
		records[i] = rec
	}
	return records, nil
}

// ReadAll reads every record of the file at path in host byte order.
func ReadAll(path string) ([][]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := Decode(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadRecord reads record i of the file at path.
func ReadRecord(path string, i int) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := count(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%s: record %d out of range [0, %d)", path, i, n)
	}

	var rec [RecordSize]byte
	if _, err := f.ReadAt(rec[:], int64(i)*RecordSize); err != nil {
		return nil, fmt.Errorf("%s: read record %d: %w", path, i, err)
	}
	records, err := Decode(rec[:], nil)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Count returns the number of records in the file at path.
func Count(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := count(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func count(f *os.File) (int, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if size%RecordSize != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrTruncated, size)
	}
	return int(size / RecordSize), nil
}
