package detect

import (
	"sort"

	"github.com/netsig/netsig/pkg/signature"
)

// Match reasons attached to result entries.
const (
	// ReasonDefaultPort marks a candidate whose canonical (port, protocol)
	// endpoint equals the queried one.
	ReasonDefaultPort = "default-port"
	// ReasonPattern marks a candidate whose payload patterns matched the
	// supplied data.
	ReasonPattern = "pattern"
)

// Match pairs a candidate signature with the confidence assigned to it and
// the evidence that put it in the result set.
type Match struct {
	Signature  *signature.Signature
	Confidence float64
	Reasons    []string
}

// Result holds the outcome of one detection query: the query parameters and
// the candidate matches ordered by confidence descending, name ascending.
// Results are immutable once returned.
type Result struct {
	port         int
	protocol     string
	dataSupplied bool
	matches      []Match
}

func newResult(port int, protocol string, dataSupplied bool, matches []Match) *Result {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Signature.Name() < matches[j].Signature.Name()
	})
	return &Result{port: port, protocol: protocol, dataSupplied: dataSupplied, matches: matches}
}

// Port returns the queried port.
func (r *Result) Port() int { return r.port }

// Protocol returns the normalized queried protocol.
func (r *Result) Protocol() string { return r.protocol }

// DataSupplied reports whether payload data was part of the query.
func (r *Result) DataSupplied() bool { return r.dataSupplied }

// Matches returns the full ordered match list. The slice is a copy; mutating
// it does not affect the result.
func (r *Result) Matches() []Match {
	out := make([]Match, len(r.matches))
	copy(out, r.matches)
	return out
}

// Best returns the highest ranked match, or nil when nothing matched. A nil
// best match means "no known signature", which is a valid outcome rather than
// an error.
func (r *Result) Best() *Match {
	if len(r.matches) == 0 {
		return nil
	}
	m := r.matches[0]
	return &m
}

// Confidence returns the best match's confidence, or 0.0 for an empty result.
func (r *Result) Confidence() float64 {
	if len(r.matches) == 0 {
		return 0.0
	}
	return r.matches[0].Confidence
}

// Len returns the number of matches.
func (r *Result) Len() int { return len(r.matches) }
