// Package npy reads and writes NumPy .npy files holding uint32 arrays in C
// order, the format simulation runs load their substream state tables from.
package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
)

var magic = []byte("\x93NUMPY")

const (
	// maxHeaderLen bounds the header dictionary of version 2 and 3 files.
	maxHeaderLen = 1 << 20

	// maxElements keeps the data size in bytes representable as an int.
	maxElements = math.MaxInt / 4
)

// ErrFormat is returned for files that are not uint32 C-order .npy arrays.
var ErrFormat = errors.New("npy: unsupported format")

// Array is an n-dimensional uint32 array in C order.
type Array struct {
	Shape []int
	Data  []uint32
}

// Len returns the number of elements the shape describes, or -1 if the
// shape is too large to address.
func (a *Array) Len() int {
	n, err := elements(a.Shape)
	if err != nil {
		return -1
	}
	return n
}

// elements multiplies out shape, failing on negative dimensions and on
// products above maxElements.
func elements(shape []int) (int, error) {
	n := uint64(1)
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in shape %v", ErrFormat, shape)
		}
		hi, lo := bits.Mul64(n, uint64(d))
		if hi != 0 || lo > maxElements {
			return 0, fmt.Errorf("%w: shape %v is too large", ErrFormat, shape)
		}
		n = lo
	}
	return int(n), nil
}

// Write encodes data with the given shape as a version 1.0 .npy file. A nil
// order means host byte order.
func Write(w io.Writer, shape []int, data []uint32, order binary.ByteOrder) error {
	n, err := elements(shape)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("npy: shape %v holds %d elements, got %d", shape, n, len(data))
	}
	if order == nil {
		order = binary.NativeEndian
	}

	header := headerFor(shape, order)
	if _, err := w.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 4*len(data))
	for i, v := range data {
		order.PutUint32(buf[4*i:], v)
	}
	_, err = w.Write(buf)
	return err
}

func headerFor(shape []int, order binary.ByteOrder) []byte {
	descr := "<u4"
	if isBig(order) {
		descr = ">u4"
	}

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}

	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, tuple)

	// magic + version + uint16 length + dict + padding + newline, aligned
	// to 64 bytes.
	const prefix = 6 + 2 + 2
	total := prefix + len(dict) + 1
	pad := (64 - total%64) % 64

	var b bytes.Buffer
	b.Write(magic)
	b.Write([]byte{1, 0})
	_ = binary.Write(&b, binary.LittleEndian, uint16(len(dict)+pad+1))
	b.WriteString(dict)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteByte('\n')
	return b.Bytes()
}

func isBig(order binary.ByteOrder) bool {
	var b [4]byte
	order.PutUint32(b[:], 1)
	return b[3] == 1
}

var (
	descrRe   = regexp.MustCompile(`'descr':\s*'([<>|=]?)u4'`)
	fortranRe = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// Read decodes a version 1.x or 2.x .npy file holding a uint32 array.
func Read(r io.Reader) (*Array, error) {
	var pre [8]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return nil, fmt.Errorf("%w: reading preamble: %v", ErrFormat, err)
	}
	if !bytes.Equal(pre[:6], magic) {
		return nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}

	var hlen int
	switch pre[6] {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: header length: %v", ErrFormat, err)
		}
		hlen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: header length: %v", ErrFormat, err)
		}
		if n > maxHeaderLen {
			return nil, fmt.Errorf("%w: header length %d exceeds %d", ErrFormat, n, maxHeaderLen)
		}
		hlen = int(n)
	default:
		return nil, fmt.Errorf("%w: version %d.%d", ErrFormat, pre[6], pre[7])
	}

	header := make([]byte, hlen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}

	order, shape, err := parseHeader(string(header))
	if err != nil {
		return nil, err
	}

	n, err := elements(shape)
	if err != nil {
		return nil, err
	}

	// Read only what is there, so a header promising more data than the
	// file holds fails without allocating for it.
	raw, err := io.ReadAll(io.LimitReader(r, int64(n)*4))
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrFormat, err)
	}
	if len(raw) != n*4 {
		return nil, fmt.Errorf("%w: data holds %d bytes, shape %v needs %d", ErrFormat, len(raw), shape, n*4)
	}

	a := &Array{Shape: shape, Data: make([]uint32, n)}
	for i := range a.Data {
		a.Data[i] = order.Uint32(raw[4*i:])
	}
	return a, nil
}

func parseHeader(h string) (binary.ByteOrder, []int, error) {
	m := descrRe.FindStringSubmatch(h)
	if m == nil {
		return nil, nil, fmt.Errorf("%w: dtype is not uint32 in %q", ErrFormat, h)
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch m[1] {
	case ">":
		order = binary.BigEndian
	case "=", "|", "":
		order = binary.NativeEndian
	}

	if f := fortranRe.FindStringSubmatch(h); f == nil || f[1] != "False" {
		return nil, nil, fmt.Errorf("%w: only C order arrays are supported", ErrFormat)
	}

	s := shapeRe.FindStringSubmatch(h)
	if s == nil {
		return nil, nil, fmt.Errorf("%w: missing shape in %q", ErrFormat, h)
	}
	var shape []int
	for _, part := range strings.Split(s[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 {
			return nil, nil, fmt.Errorf("%w: bad dimension %q", ErrFormat, part)
		}
		shape = append(shape, d)
	}
	return order, shape, nil
}
