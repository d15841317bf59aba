package decoder

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

// reader tracks the absolute stream offset on top of a buffered reader.
// All multi-byte integers are little-endian.
type reader struct {
	br      *bufio.Reader
	off     int64
	scratch [8]byte
}

func newReader(r io.Reader) reader {
	return reader{br: bufio.NewReader(r)}
}

func (r *reader) full(c Construct, buf []byte) error {
	start := r.off
	n, err := io.ReadFull(r.br, buf)
	r.off += int64(n)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &UnexpectedEOFError{Construct: c, Offset: start, Needed: len(buf), Available: n}
	}
	return &IOError{Construct: c, Offset: start, Err: err}
}

func (r *reader) u8(c Construct) (uint8, error) {
	if err := r.full(c, r.scratch[:1]); err != nil {
		return 0, err
	}
	return r.scratch[0], nil
}

func (r *reader) u16(c Construct) (uint16, error) {
	if err := r.full(c, r.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.scratch[:2]), nil
}

func (r *reader) i64(c Construct) (int64, error) {
	if err := r.full(c, r.scratch[:8]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(r.scratch[:8])), nil
}

// bytes reads a u16 length followed by that many raw bytes.
func (r *reader) bytes(c Construct) ([]byte, error) {
	n, err := r.u16(c)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := r.full(c, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// drain consumes whatever is left and returns its length.
func (r *reader) drain() (int64, error) {
	start := r.off
	n, err := io.Copy(io.Discard, r.br)
	r.off += n
	if err != nil {
		return n, &IOError{Construct: ConstructProgram, Offset: start, Err: err}
	}
	return n, nil
}
