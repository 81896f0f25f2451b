// Package signature provides the data model for identifying network services:
// the Signature entity describing one service's fingerprint (default port,
// transport protocol, payload patterns) and the Database that indexes
// signatures for lookup by name and by (port, protocol) endpoint.
package signature

import (
	"fmt"
	"strings"
)

const (
	// ProtocolTCP is the normalized TCP transport token.
	ProtocolTCP = "tcp"
	// ProtocolUDP is the normalized UDP transport token.
	ProtocolUDP = "udp"

	// MaxPort is the highest valid port number.
	MaxPort = 65535
)

// NormalizeProtocol lowercases a transport token and reports whether it is one
// of the supported protocols.
func NormalizeProtocol(protocol string) (string, bool) {
	p := strings.ToLower(strings.TrimSpace(protocol))
	return p, p == ProtocolTCP || p == ProtocolUDP
}

// ValidPort reports whether port is inside the valid port range.
func ValidPort(port int) bool {
	return port >= 0 && port <= MaxPort
}

// Signature describes how to recognize one network service. Name, default
// port and protocol are fixed at construction; patterns may be appended over
// the signature's lifetime.
type Signature struct {
	name        string
	port        int
	protocol    string
	description string
	patterns    []Pattern
}

// New builds a signature for a service with the given canonical port and
// transport protocol. The protocol is case-insensitive on input and stored
// lowercase.
func New(name string, port int, protocol string) (*Signature, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &InvalidSignatureError{Field: "name", Reason: "must not be empty"}
	}
	if !ValidPort(port) {
		return nil, &InvalidSignatureError{Field: "port", Reason: fmt.Sprintf("%d outside [0, %d]", port, MaxPort)}
	}
	proto, ok := NormalizeProtocol(protocol)
	if !ok {
		return nil, &InvalidSignatureError{Field: "protocol", Reason: fmt.Sprintf("%q is not tcp or udp", protocol)}
	}
	return &Signature{name: name, port: port, protocol: proto}, nil
}

// WithDescription sets the free-text description and returns the signature for
// chaining during construction.
func (s *Signature) WithDescription(desc string) *Signature {
	s.description = desc
	return s
}

// Name returns the signature's identifier, e.g. "HTTP".
func (s *Signature) Name() string { return s.name }

// Port returns the service's canonical port.
func (s *Signature) Port() int { return s.port }

// Protocol returns the normalized transport protocol ("tcp" or "udp").
func (s *Signature) Protocol() string { return s.protocol }

// Description returns the free-text description, possibly empty.
func (s *Signature) Description() string { return s.description }

// Patterns returns a copy of the signature's pattern list in declaration order.
func (s *Signature) Patterns() []Pattern {
	out := make([]Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// AddPattern appends a pattern to the signature's evidence list.
func (s *Signature) AddPattern(p Pattern) {
	s.patterns = append(s.patterns, p)
}

// AddLiteral appends a substring pattern.
func (s *Signature) AddLiteral(text string) error {
	p, err := NewLiteralPattern(text)
	if err != nil {
		return err
	}
	s.AddPattern(p)
	return nil
}

// AddRegex compiles and appends a regular expression pattern.
func (s *Signature) AddRegex(expr string) error {
	p, err := NewRegexPattern(expr)
	if err != nil {
		return err
	}
	s.AddPattern(p)
	return nil
}

// MatchesEndpoint reports whether the given port and protocol equal the
// signature's canonical endpoint.
func (s *Signature) MatchesEndpoint(port int, protocol string) bool {
	proto, _ := NormalizeProtocol(protocol)
	return s.port == port && s.protocol == proto
}

// Matches reports whether at least one of the signature's patterns is found
// in data. A signature without patterns contributes no payload evidence and
// always returns false.
func (s *Signature) Matches(data []byte) bool {
	for _, p := range s.patterns {
		if p.Matches(data) {
			return true
		}
	}
	return false
}

func (s *Signature) String() string {
	return fmt.Sprintf("Signature(%s %d/%s)", s.name, s.port, s.protocol)
}
