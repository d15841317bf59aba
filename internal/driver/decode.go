package driver

import (
	"errors"
	"fmt"
	"math"

	"fortio.org/safecast"

	"astdump/internal/ast"
	"astdump/internal/decoder"
	"astdump/internal/diag"
	"astdump/internal/observ"
	"astdump/internal/source"
)

// DefaultMaxInputBytes bounds how much of an input file is read into memory.
const DefaultMaxInputBytes int64 = 64 << 20

// DefaultMaxDiagnostics is used when DecodeOptions.MaxDiagnostics is not positive.
const DefaultMaxDiagnostics = 100

// DecodeOptions configures decoding of a single file.
type DecodeOptions struct {
	MaxDepth       int   // 0 = decoder.DefaultMaxDepth
	MaxInputBytes  int64 // 0 = DefaultMaxInputBytes, <0 = unlimited
	StrictTrailing bool
	MaxDiagnostics int   // <=0 = DefaultMaxDiagnostics
	EnableTimings  bool
}

func (o DecodeOptions) diagnosticLimit() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

func (o DecodeOptions) inputLimit() int64 {
	switch {
	case o.MaxInputBytes == 0:
		return DefaultMaxInputBytes
	case o.MaxInputBytes < 0:
		return 0
	default:
		return o.MaxInputBytes
	}
}

func (o DecodeOptions) decoderOptions() decoder.Options {
	return decoder.Options{MaxDepth: o.MaxDepth, StrictTrailing: o.StrictTrailing}
}

// DecodeResult holds everything produced for one input file. Program is nil
// when Bag has errors.
type DecodeResult struct {
	Path     string
	FileSet  *source.FileSet
	File     *source.File
	Bag      *diag.Bag
	Program  *ast.Program
	Stats    ast.Stats
	Size     int64
	Trailing int64
	Timer    *observ.Timer
}

// Failed reports whether the file could not be decoded.
func (r *DecodeResult) Failed() bool {
	return r == nil || r.Program == nil || r.Bag.HasErrors()
}

// phases wraps an optional timer.
type phases struct {
	timer *observ.Timer
}

func (p phases) begin(name string) int {
	if p.timer == nil {
		return -1
	}
	return p.timer.Begin(name)
}

func (p phases) end(idx int, bytes int64, note string) {
	if p.timer == nil || idx < 0 {
		return
	}
	p.timer.End(idx, bytes, note)
}

// DecodeFile loads path and decodes it into an AST.
func DecodeFile(path string, opts DecodeOptions) *DecodeResult {
	return DecodeInto(source.NewFileSet(), path, opts)
}

// DecodeInto loads path into fs and decodes it. The FileSet may be shared
// between goroutines.
func DecodeInto(fs *source.FileSet, path string, opts DecodeOptions) *DecodeResult {
	res := newResult(fs, path, opts)
	ph := phases{timer: res.Timer}

	loadIdx := ph.begin("load")
	fileID, err := fs.Load(path, opts.inputLimit())
	if err != nil {
		ph.end(loadIdx, 0, "failed")
		reportLoadError(res.Bag, path, err)
		return res
	}
	res.File = fs.Get(fileID)
	ph.end(loadIdx, int64(res.File.Size()), "")

	decodeLoaded(res, ph, opts)
	return res
}

// DecodeSource decodes a file already present in fs.
func DecodeSource(fs *source.FileSet, fileID source.FileID, opts DecodeOptions) *DecodeResult {
	file := fs.Get(fileID)
	path := ""
	if file != nil {
		path = file.Path
	}
	res := newResult(fs, path, opts)
	if file == nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("file %d not found", fileID)))
		return res
	}
	res.File = file
	decodeLoaded(res, phases{timer: res.Timer}, opts)
	return res
}

func newResult(fs *source.FileSet, path string, opts DecodeOptions) *DecodeResult {
	res := &DecodeResult{
		Path:    path,
		FileSet: fs,
		Bag:     diag.NewBag(opts.diagnosticLimit()),
	}
	if opts.EnableTimings {
		res.Timer = observ.NewTimer()
	}
	return res
}

func decodeLoaded(res *DecodeResult, ph phases, opts DecodeOptions) {
	decodeIdx := ph.begin("decode")
	out, err := decoder.DecodeBytes(res.File.Content, opts.decoderOptions())
	if err != nil {
		ph.end(decodeIdx, 0, "failed")
		reportDecodeError(diag.BagReporter{Bag: res.Bag}, res.File.ID, err)
		return
	}
	res.Program = out.Program
	res.Size = out.Size
	res.Trailing = out.Trailing
	res.Stats = ast.CollectStats(out.Program)
	ph.end(decodeIdx, out.Size, fmt.Sprintf("decls=%d exprs=%d", res.Stats.Decls, res.Stats.Exprs))

	if out.Trailing > 0 {
		span := source.Span{File: res.File.ID, Start: offset32(out.Size), End: offset32(out.Size + out.Trailing)}
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.DecTrailingData, span,
			fmt.Sprintf("%d trailing %s after program", out.Trailing, plural(out.Trailing, "byte", "bytes"))).
			WithNote(source.At(res.File.ID, offset32(out.Size)), "program ends here").
			Emit()
	}
	if len(out.Program.Decls) == 0 {
		res.Bag.Add(diag.New(diag.SevInfo, diag.DecEmptyProgram, source.At(res.File.ID, 0), "program has no declarations"))
	}
}

func reportLoadError(bag *diag.Bag, path string, err error) {
	var tooLarge *source.ErrTooLarge
	if errors.As(err, &tooLarge) {
		bag.Add(diag.NewError(diag.IOFileTooLarge, source.Span{},
			fmt.Sprintf("%s exceeds the input limit of %d bytes", path, tooLarge.Limit)))
		return
	}
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load file %s: %v", path, err)))
}

// reportDecodeError converts a decoder error into a diagnostic at the
// offending offset.
func reportDecodeError(r diag.Reporter, file source.FileID, err error) {
	var (
		invalid  *decoder.InvalidTagError
		eof      *decoder.UnexpectedEOFError
		ioErr    *decoder.IOError
		depth    *decoder.DepthLimitError
		trailing *decoder.TrailingDataError
	)
	switch {
	case errors.As(err, &invalid):
		span := source.Span{File: file, Start: offset32(invalid.Offset), End: offset32(invalid.Offset + 1)}
		diag.ReportError(r, diag.DecInvalidTag, span,
			fmt.Sprintf("invalid tag 0x%02x for %s", invalid.Value, invalid.Construct)).Emit()
	case errors.As(err, &eof):
		b := diag.ReportError(r, diag.DecUnexpectedEOF, source.At(file, offset32(eof.Offset)),
			fmt.Sprintf("unexpected end of input reading %s: needed %d %s, %d available",
				eof.Construct, eof.Needed, plural(int64(eof.Needed), "byte", "bytes"), eof.Available))
		if eof.Available > 0 {
			b.WithNote(source.At(file, offset32(eof.Offset+int64(eof.Available))), "input ends here")
		}
		b.Emit()
	case errors.As(err, &depth):
		diag.ReportError(r, diag.DecDepthLimit, source.At(file, offset32(depth.Offset)),
			fmt.Sprintf("%s nesting exceeds the limit of %d", depth.Construct, depth.Limit)).Emit()
	case errors.As(err, &trailing):
		span := source.Span{File: file, Start: offset32(trailing.Offset), End: offset32(trailing.Offset + trailing.Count)}
		diag.ReportError(r, diag.DecTrailingData, span,
			fmt.Sprintf("%d trailing %s after program", trailing.Count, plural(trailing.Count, "byte", "bytes"))).Emit()
	case errors.As(err, &ioErr):
		diag.ReportError(r, diag.IOReadFailure, source.At(file, offset32(ioErr.Offset)),
			fmt.Sprintf("read failed while decoding %s: %v", ioErr.Construct, ioErr.Err)).Emit()
	default:
		var primary source.Span
		if off, ok := decoder.ErrorOffset(err); ok {
			primary = source.At(file, offset32(off))
		}
		diag.ReportError(r, diag.UnknownCode, primary, err.Error()).Emit()
	}
}

// offset32 clamps a stream offset into the span range.
func offset32(off int64) uint32 {
	v, err := safecast.Conv[uint32](off)
	if err != nil {
		if off < 0 {
			return 0
		}
		return math.MaxUint32
	}
	return v
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
