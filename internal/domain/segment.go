package domain

import (
	"fmt"
	"strings"
)

// Segment identifies the audience a quiz taker belongs to. It selects the
// question set and the narrative copy.
type Segment string

const (
	SegmentPerson  Segment = "Pessoa"
	SegmentCompany Segment = "Empresa"
	SegmentSchool  Segment = "Escola"
)

// Segments lists the closed set of segments in display order.
var Segments = []Segment{SegmentPerson, SegmentCompany, SegmentSchool}

// ParseSegment matches s against the closed segment set, ignoring case and
// surrounding whitespace.
func ParseSegment(s string) (Segment, error) {
	trimmed := strings.TrimSpace(s)
	for _, seg := range Segments {
		if strings.EqualFold(trimmed, string(seg)) {
			return seg, nil
		}
	}
	return "", NewInvalidSegmentError(s)
}

// Valid reports whether s is one of the closed segment values.
func (s Segment) Valid() bool {
	for _, seg := range Segments {
		if s == seg {
			return true
		}
	}
	return false
}

func (s Segment) String() string {
	return string(s)
}

// QuestionsFor returns the question list configured for a segment.
func QuestionsFor(questions map[Segment][]string, segment Segment) ([]string, error) {
	list, ok := questions[segment]
	if !ok || len(list) == 0 {
		return nil, NewError(CodeNotFound, fmt.Sprintf("no questions configured for segment %s", segment), nil)
	}
	return list, nil
}
