package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration of one pipeline step and the bytes it handled.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Bytes int64
	Note  string
}

// Timer tracks the execution time of the load, decode and render phases.
// A Timer is owned by a single goroutine.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return NewTimerWithClock(time.Now) }

// NewTimerWithClock creates a Timer reading time from now.
func NewTimerWithClock(now func() time.Time) *Timer {
	return &Timer{phases: make([]Phase, 0, 4), now: now}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, bytes int64, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Bytes = bytes
	p.Note = note
}

// Phases returns the recorded phases in start order.
func (t *Timer) Phases() []Phase {
	return append([]Phase(nil), t.phases...)
}

// Summary returns a human-readable table of all tracked phases.
func (t *Timer) Summary() string {
	return t.Report().Format()
}

// PhaseReport is the serializable summary of one phase.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Bytes      int64   `json:"bytes,omitempty" msgpack:"bytes,omitempty"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report holds the aggregated timer data.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases and the total duration in milliseconds.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Bytes:      phase.Bytes,
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Merge adds the phase durations of other into r by phase name, keeping
// first-seen order. It is used to aggregate timings over many files.
func (r Report) Merge(other Report) Report {
	out := Report{TotalMS: r.TotalMS + other.TotalMS, Phases: append([]PhaseReport(nil), r.Phases...)}
	for _, p := range other.Phases {
		found := false
		for i := range out.Phases {
			if out.Phases[i].Name == p.Name {
				out.Phases[i].DurationMS += p.DurationMS
				out.Phases[i].Bytes += p.Bytes
				found = true
				break
			}
		}
		if !found {
			p.Note = ""
			out.Phases = append(out.Phases, p)
		}
	}
	return out
}

// Format renders the report as an aligned table with a total line.
func (r Report) Format() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-8s %9.3f ms", p.Name, p.DurationMS)
		if p.Bytes > 0 {
			fmt.Fprintf(&sb, " %10d B", p.Bytes)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-8s %9.3f ms\n", "total", r.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
