package diag

import (
	"fmt"
	"sort"
)

type Bag struct {
	items []*Diagnostic
	max   uint16
}

// NewBag returns a bag holding at most max diagnostics. Values outside the
// uint16 range are clamped.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	if max > 0xffff {
		max = 0xffff
	}
	return &Bag{
		items: make([]*Diagnostic, 0, min(max, 16)),
		max:   uint16(max),
	}
}

// Add appends d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil || len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic has Severity >= SevError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity.AtLeast(SevError) {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= SevWarning.
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity.AtLeast(SevWarning) {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the diagnostics. The slice aliases the bag; do not modify it.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// First returns the first diagnostic with at least the given severity.
func (b *Bag) First(sev Severity) *Diagnostic {
	for _, d := range b.items {
		if d.Severity.AtLeast(sev) {
			return d
		}
	}
	return nil
}

// Merge appends all diagnostics of other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		b.max = uint16(min(newTotal, 0xffff))
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort orders diagnostics by file, start, end, severity (desc), code (asc).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops diagnostics repeating an earlier Code+Primary pair.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
