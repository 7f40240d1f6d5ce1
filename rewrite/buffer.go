// Package rewrite records text edits against an immutable source and
// renders the edited result on demand.
package rewrite

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrOverlap is returned for an edit that partially overlaps an earlier
// one or falls strictly inside an edited range.
var ErrOverlap = errors.New("overlapping edit")

// edit replaces src[start:end] with text. start == end is an insertion.
type edit struct {
	start, end int
	text       string
	seq        int // insertion order, breaks ties between insertions
}

// Buffer holds a source and the edits made to it. Offsets always refer to
// the original source, no matter how many edits were made before.
type Buffer struct {
	src   []byte
	edits []edit // sorted by start, then seq
	seq   int
}

// NewBuffer returns a buffer over src. src is not modified.
func NewBuffer(src []byte) *Buffer {
	return &Buffer{src: src}
}

// Remove deletes src[start:end].
func (b *Buffer) Remove(start, end int) error {
	return b.Replace(start, end, "")
}

// Replace replaces src[start:end] with text; start == end inserts text,
// after earlier insertions at the same offset. Earlier edits lying inside
// [start, end) are superseded: the caller is expected to have built text
// from Text(start, end) if it wanted to keep them.
func (b *Buffer) Replace(start, end int, text string) error {
	if start < 0 || end > len(b.src) || start > end {
		return fmt.Errorf("edit [%d,%d) out of range [0,%d)", start, end, len(b.src))
	}
	kept := b.edits[:0:0]
	for _, e := range b.edits {
		switch {
		case e.end <= start && e.start < start, e.start >= end && e.end > end:
			// disjoint
		case e.start == e.end && (e.start == start || e.start == end) && start != end:
			// insertion on the boundary of the new range
		case start == end && (start <= e.start || start >= e.end):
			// new insertion on the boundary of, or outside, an old edit
		case start <= e.start && e.end <= end && start != end:
			continue // superseded
		default:
			return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap, start, end, e.start, e.end)
		}
		kept = append(kept, e)
	}
	b.seq++
	kept = append(kept, edit{start: start, end: end, text: text, seq: b.seq})
	slices.SortStableFunc(kept, func(x, y edit) int {
		if x.start != y.start {
			return x.start - y.start
		}
		// an insertion at p goes before a replacement starting at p
		if (x.start == x.end) != (y.start == y.end) {
			if x.start == x.end {
				return -1
			}
			return 1
		}
		return x.seq - y.seq
	})
	b.edits = kept
	return nil
}

// Text returns src[start:end] with every edit lying inside the range
// applied. Edits that cross the range boundary are ignored.
func (b *Buffer) Text(start, end int) string {
	var sb strings.Builder
	b.render(&sb, start, end)
	return sb.String()
}

// Bytes returns the whole source with all edits applied.
func (b *Buffer) Bytes() []byte {
	var sb strings.Builder
	sb.Grow(len(b.src))
	b.render(&sb, 0, len(b.src))
	return []byte(sb.String())
}

// Len returns the number of live edits.
func (b *Buffer) Len() int { return len(b.edits) }

// Source returns the original, unedited source.
func (b *Buffer) Source() []byte { return b.src }

func (b *Buffer) render(sb *strings.Builder, start, end int) {
	pos := start
	for _, e := range b.edits {
		if e.start < pos || e.end > end {
			continue
		}
		sb.Write(b.src[pos:e.start])
		sb.WriteString(e.text)
		pos = e.end
	}
	sb.Write(b.src[pos:end])
}
