package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"astdump/internal/diag"
	"astdump/internal/source"
)

// CheckOptions configures a multi-file check.
type CheckOptions struct {
	Decode   DecodeOptions
	Jobs     int // 0 = GOMAXPROCS
	Progress ProgressSink
}

// CheckResult pairs an input path with its decode outcome.
type CheckResult struct {
	Path   string
	Result *DecodeResult
}

// errDecodeFailed marks error events; details live in the result's Bag.
var errDecodeFailed = errors.New("decode failed")

// CheckFiles decodes files in parallel. Each file gets its own Bag and
// timer, and results come back in the order of paths. A decode failure does
// not stop the other files; the error is non-nil only when ctx is canceled.
func CheckFiles(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	fileSet := source.NewFileSet()
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes only its own index, so no mutex is needed
	results := make([]CheckResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			emit(opts.Progress, Event{File: path, Stage: StageDecode, Status: StatusWorking})
			res := DecodeInto(fileSet, path, opts.Decode)
			results[i] = CheckResult{Path: path, Result: res}

			evt := Event{File: path, Stage: StageDecode, Status: StatusDone, Elapsed: time.Since(started)}
			if res.Failed() {
				evt.Status = StatusError
				evt.Err = failure(res)
			}
			emit(opts.Progress, evt)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func failure(res *DecodeResult) error {
	if d := res.Bag.First(diag.SevError); d != nil {
		return fmt.Errorf("%w: %s", errDecodeFailed, d.Message)
	}
	return errDecodeFailed
}

// AnyFailed reports whether at least one file failed to decode.
func AnyFailed(results []CheckResult) bool {
	for _, r := range results {
		if r.Result.Failed() {
			return true
		}
	}
	return false
}
