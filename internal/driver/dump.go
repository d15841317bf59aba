package driver

import (
	"bytes"
	"fmt"
	"io"

	"astdump/internal/diag"
	"astdump/internal/diagfmt"
	"astdump/internal/source"
)

// OutputFormat selects how a decoded program is rendered.
type OutputFormat string

const (
	// FormatTree is the indented tree rendering.
	FormatTree OutputFormat = "tree"
	// FormatJSON is the JSON tree rendering.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatTree:
		return FormatTree, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want tree or json)", s)
	}
}

// DumpOptions configures a single-file dump.
type DumpOptions struct {
	Decode DecodeOptions
	Format OutputFormat
	Tree   diagfmt.TreeOpts
	Cache  *DiskCache
}

// DumpResult is a decoded file together with its complete rendering.
type DumpResult struct {
	*DecodeResult
	Rendered []byte
	Cached   bool
}

// Failed reports whether no rendering is available.
func (r *DumpResult) Failed() bool {
	if r == nil {
		return true
	}
	if r.Cached {
		return false
	}
	return r.DecodeResult.Failed()
}

// Dump decodes path and renders it into memory, so nothing is written
// unless the whole file decoded. With a cache, a previous rendering of the
// same content and settings is reused without decoding.
func Dump(path string, opts DumpOptions) *DumpResult {
	fs := source.NewFileSet()
	res := newResult(fs, path, opts.Decode)
	out := &DumpResult{DecodeResult: res}
	ph := phases{timer: res.Timer}

	loadIdx := ph.begin("load")
	fileID, err := fs.Load(path, opts.Decode.inputLimit())
	if err != nil {
		ph.end(loadIdx, 0, "failed")
		reportLoadError(res.Bag, path, err)
		return out
	}
	res.File = fs.Get(fileID)
	ph.end(loadIdx, int64(res.File.Size()), "")

	format := opts.Format
	if format == "" {
		format = FormatTree
	}
	key := NewCacheKey(res.File.Hash, format, opts.Tree.Text.String(), opts.Decode)
	if opts.Cache != nil {
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			res.Bag.Add(diag.NewWarning(diag.CliCacheFailure, source.Span{}, fmt.Sprintf("cache read failed: %v", err)))
		case ok && payload.ContentHash == res.File.Hash:
			out.Rendered = payload.Rendered
			out.Cached = true
			res.Stats = payload.Stats
			res.Size = int64(res.File.Size())
			return out
		}
	}

	decodeLoaded(res, ph, opts.Decode)
	if res.Failed() {
		return out
	}

	renderIdx := ph.begin("render")
	var buf bytes.Buffer
	if err := Render(&buf, res, format, opts.Tree); err != nil {
		ph.end(renderIdx, 0, "failed")
		res.Bag.Add(diag.NewError(diag.UnknownCode, source.Span{}, fmt.Sprintf("render failed: %v", err)))
		res.Program = nil
		return out
	}
	ph.end(renderIdx, int64(buf.Len()), string(format))
	out.Rendered = buf.Bytes()

	// a hit replays no diagnostics, so only results without any are cached
	if opts.Cache != nil && res.Bag.Len() == 0 {
		err := opts.Cache.Put(key, &DiskPayload{
			ContentHash: res.File.Hash,
			Format:      string(format),
			TextMode:    opts.Tree.Text.String(),
			Rendered:    out.Rendered,
			Stats:       res.Stats,
		})
		if err != nil {
			res.Bag.Add(diag.NewWarning(diag.CliCacheFailure, source.Span{}, fmt.Sprintf("cache write failed: %v", err)))
		}
	}
	return out
}

// Render writes the decoded program of res in the given format.
func Render(w io.Writer, res *DecodeResult, format OutputFormat, tree diagfmt.TreeOpts) error {
	if res == nil || res.Program == nil {
		return fmt.Errorf("nothing to render")
	}
	switch format {
	case FormatJSON:
		return diagfmt.FormatASTJSON(w, res.Program)
	default:
		return diagfmt.FormatASTTree(w, res.Program, tree)
	}
}
