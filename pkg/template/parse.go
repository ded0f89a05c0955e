package template

import (
	"iter"
	"regexp"
)

// SegmentKind distinguishes literal text from placeholders.
type SegmentKind int

const (
	Literal SegmentKind = iota
	Placeholder
)

func (k SegmentKind) String() string {
	if k == Placeholder {
		return "placeholder"
	}
	return "literal"
}

// Segment is one piece of a parsed template.
// For a Placeholder, Text is the name between the braces.
type Segment struct {
	Kind SegmentKind
	Text string
}

// placeholderPattern matches the shortest brace pair on a single line.
// The name is not validated: "{}" and "{ }" are placeholders too.
var placeholderPattern = regexp.MustCompile(`\{(.*?)\}`)

// Parse returns the segments of s in source order.
// Concatenating the literals and the braced placeholders reproduces s exactly.
// The sequence is lazy and can be ranged over any number of times.
func Parse(s string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		pos := 0
		for pos < len(s) {
			loc := placeholderPattern.FindStringSubmatchIndex(s[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			name := s[pos+loc[2] : pos+loc[3]]

			if start > pos {
				if !yield(Segment{Kind: Literal, Text: s[pos:start]}) {
					return
				}
			}
			if !yield(Segment{Kind: Placeholder, Text: name}) {
				return
			}
			pos = end
		}
		if pos < len(s) {
			yield(Segment{Kind: Literal, Text: s[pos:]})
		}
	}
}
