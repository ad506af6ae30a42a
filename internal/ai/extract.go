package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape selects which kind of JSON fragment ExtractJSON looks for.
type Shape int

const (
	Object Shape = iota
	Array
)

func (s Shape) delims() (open, close byte) {
	if s == Array {
		return '[', ']'
	}
	return '{', '}'
}

func (s Shape) String() string {
	if s == Array {
		return "array"
	}
	return "object"
}

// plausibleStart reports whether rest, the text after an opener, can be the
// body of a JSON value of this shape.
func (s Shape) plausibleStart(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	if rest == "" {
		// truncated right after the opener
		return true
	}
	c := rest[0]
	if s == Object {
		return c == '"' || c == '}'
	}
	return strings.IndexByte(`{["-0123456789tfn]`, c) >= 0
}

// ExtractJSON returns the first balanced top-level {...} (or [...]) span in
// raw that parses as JSON. An opener only starts a span when the next
// non-space byte can begin the shape's body, so braces in prose are skipped.
// Spans that balance but do not parse are skipped; an unterminated span ends
// the search.
func ExtractJSON(raw string, shape Shape) (json.RawMessage, error) {
	open, close := shape.delims()

	var (
		depth    int
		start    int
		inString bool
		escaped  bool
	)

	for i := 0; i < len(raw); i++ {
		ch := raw[i]

		if depth == 0 {
			if ch == open && shape.plausibleStart(raw[i+1:]) {
				depth = 1
				start = i
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				span := raw[start : i+1]
				if json.Valid([]byte(span)) {
					return json.RawMessage(span), nil
				}
			}
		}
	}

	if depth > 0 {
		return nil, fmt.Errorf("%w: unterminated JSON %s", ErrMalformedResponse, shape)
	}
	return nil, fmt.Errorf("%w: no JSON %s found", ErrMalformedResponse, shape)
}
