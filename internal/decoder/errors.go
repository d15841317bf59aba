package decoder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTag matches any *InvalidTagError.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrUnexpectedEOF matches any *UnexpectedEOFError.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")
	// ErrDepthLimit matches any *DepthLimitError.
	ErrDepthLimit = errors.New("nesting depth limit exceeded")
	// ErrTrailingData matches any *TrailingDataError.
	ErrTrailingData = errors.New("trailing data after program")
)

// InvalidTagError reports a discriminant byte outside the range defined for
// its construct.
type InvalidTagError struct {
	Construct Construct
	Value     byte
	Offset    int64
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid %s tag %d (0x%02x) at offset %d", e.Construct, e.Value, e.Value, e.Offset)
}

func (e *InvalidTagError) Is(target error) bool { return target == ErrInvalidTag }

// UnexpectedEOFError reports a stream that ended inside a fixed-width or
// length-prefixed field.
type UnexpectedEOFError struct {
	Construct Construct
	Offset    int64
	Needed    int
	Available int
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of stream reading %s at offset %d: need %d bytes, have %d",
		e.Construct, e.Offset, e.Needed, e.Available)
}

func (e *UnexpectedEOFError) Is(target error) bool { return target == ErrUnexpectedEOF }

// IOError wraps a failure of the underlying reader.
type IOError struct {
	Construct Construct
	Offset    int64
	Err       error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s at offset %d: %v", e.Construct, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// DepthLimitError reports expression nesting deeper than Options.MaxDepth.
type DepthLimitError struct {
	Construct Construct
	Offset    int64
	Limit     int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("%s at offset %d nests deeper than %d levels", e.Construct, e.Offset, e.Limit)
}

func (e *DepthLimitError) Is(target error) bool { return target == ErrDepthLimit }

// TrailingDataError reports bytes after the end of the program in strict mode.
type TrailingDataError struct {
	Offset int64
	Count  int64
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%d trailing bytes after program at offset %d", e.Count, e.Offset)
}

func (e *TrailingDataError) Is(target error) bool { return target == ErrTrailingData }

// ErrorOffset extracts the stream offset carried by a decoder error.
func ErrorOffset(err error) (int64, bool) {
	var (
		tagErr      *InvalidTagError
		eofErr      *UnexpectedEOFError
		ioErr       *IOError
		depthErr    *DepthLimitError
		trailingErr *TrailingDataError
	)
	switch {
	case errors.As(err, &tagErr):
		return tagErr.Offset, true
	case errors.As(err, &eofErr):
		return eofErr.Offset, true
	case errors.As(err, &ioErr):
		return ioErr.Offset, true
	case errors.As(err, &depthErr):
		return depthErr.Offset, true
	case errors.As(err, &trailingErr):
		return trailingErr.Offset, true
	}
	return 0, false
}
