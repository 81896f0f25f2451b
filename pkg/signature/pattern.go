package signature

import (
	"bytes"
	"fmt"
	"regexp"
)

// PatternKind discriminates the two supported pattern variants.
type PatternKind string

const (
	// PatternLiteral matches by raw substring containment.
	PatternLiteral PatternKind = "literal"
	// PatternRegex matches by search-anywhere regular expression.
	PatternRegex PatternKind = "regex"
)

// Pattern is one piece of payload evidence for a signature: either a literal
// byte/text token or a regular expression. The regex variant is compiled at
// construction time, never at match time.
type Pattern struct {
	Kind  PatternKind
	Value string

	re *regexp.Regexp
}

// NewLiteralPattern builds a substring pattern.
func NewLiteralPattern(text string) (Pattern, error) {
	if text == "" {
		return Pattern{}, &InvalidSignatureError{Field: "pattern", Reason: "literal pattern is empty"}
	}
	return Pattern{Kind: PatternLiteral, Value: text}, nil
}

// NewRegexPattern compiles expr into a regex pattern.
func NewRegexPattern(expr string) (Pattern, error) {
	if expr == "" {
		return Pattern{}, &InvalidSignatureError{Field: "pattern", Reason: "regex pattern is empty"}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, &InvalidSignatureError{Field: "pattern", Reason: fmt.Sprintf("compile regex %q: %v", expr, err)}
	}
	return Pattern{Kind: PatternRegex, Value: expr, re: re}, nil
}

// Matches reports whether the pattern is found anywhere in data.
func (p Pattern) Matches(data []byte) bool {
	switch p.Kind {
	case PatternLiteral:
		return bytes.Contains(data, []byte(p.Value))
	case PatternRegex:
		return p.re != nil && p.re.Match(data)
	default:
		return false
	}
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, p.Value)
}
