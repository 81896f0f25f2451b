// Package detect implements the service detection engine. A Detector fuses
// two independent evidence sources against a signature database: the queried
// (port, protocol) endpoint, a prior from well-known registrations, and
// optional captured payload bytes tested against each signature's patterns.
// Detection is a pure, synchronous computation; no sockets are opened and no
// payloads are parsed beyond substring and regex pattern tests.
package detect

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/netsig/netsig/pkg/signature"
)

// Query carries the parameters of one detection request. Data is optional:
// nil means no payload was captured and only port evidence is evaluated.
type Query struct {
	Port     int
	Protocol string
	Data     []byte
}

// Detector runs signature detection against a database. It only reads the
// database, so a single detector is safe for concurrent use as long as
// database writes do not overlap a running batch.
type Detector struct {
	db     *signature.Database
	policy Policy
	logger zerolog.Logger
}

// New creates a detector with the default confidence policy.
func New(db *signature.Database) *Detector {
	d, _ := NewWithPolicy(db, DefaultPolicy())
	return d
}

// NewWithPolicy creates a detector using custom confidence tiers. The policy
// ordering is validated up front so every later Detect call can trust it.
func NewWithPolicy(db *signature.Database, policy Policy) (*Detector, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("detector policy: %w", err)
	}
	return &Detector{db: db, policy: policy, logger: log.Logger}, nil
}

// candidate accumulates evidence for one signature across the port-indexed
// pass and the full-database pattern pass.
type candidate struct {
	sig        *signature.Signature
	portMatch  bool
	patternHit bool
}

// Detect resolves a single query into a ranked, confidence-scored result.
//
// Candidates come from two passes: the (port, protocol) index, and, when data
// is supplied, a scan of the entire database for pattern matches so a service
// running off its default port still reveals itself. Each surviving candidate
// is scored by the policy tier for its evidence combination; a signature with
// neither port nor pattern evidence is excluded rather than reported at zero.
func (d *Detector) Detect(ctx context.Context, q Query) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !signature.ValidPort(q.Port) {
		return nil, &InvalidQueryError{Field: "port", Reason: fmt.Sprintf("%d outside [0, %d]", q.Port, signature.MaxPort)}
	}
	proto, ok := signature.NormalizeProtocol(q.Protocol)
	if !ok {
		return nil, &InvalidQueryError{Field: "protocol", Reason: fmt.Sprintf("%q is not tcp or udp", q.Protocol)}
	}

	dataSupplied := q.Data != nil

	byName := make(map[string]*candidate)
	for _, sig := range d.db.FindByPort(q.Port, proto) {
		byName[sig.Name()] = &candidate{sig: sig, portMatch: true}
	}

	if dataSupplied {
		for _, sig := range d.db.FindByPattern(q.Data) {
			if c, exists := byName[sig.Name()]; exists {
				c.patternHit = true
			} else {
				byName[sig.Name()] = &candidate{sig: sig, patternHit: true}
			}
		}
	}

	matches := make([]Match, 0, len(byName))
	for _, c := range byName {
		m := Match{Signature: c.sig}
		switch {
		case c.portMatch && c.patternHit:
			m.Confidence = d.policy.Combined
			m.Reasons = []string{ReasonDefaultPort, ReasonPattern}
		case c.patternHit:
			m.Confidence = d.policy.PatternOnly
			m.Reasons = []string{ReasonPattern}
		default:
			m.Confidence = d.policy.PortOnly
			m.Reasons = []string{ReasonDefaultPort}
		}
		matches = append(matches, m)
	}

	result := newResult(q.Port, proto, dataSupplied, matches)

	d.logger.Debug().
		Int("port", q.Port).
		Str("protocol", proto).
		Bool("data", dataSupplied).
		Int("matches", result.Len()).
		Msg("detection complete")

	return result, nil
}
