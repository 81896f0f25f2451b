package detect

import "fmt"

// Default confidence tiers. The exact figures are policy; the strict ordering
// PortOnly < PatternOnly < Combined is load-bearing and enforced by Validate.
const (
	DefaultPortOnlyConfidence    = 0.5
	DefaultPatternOnlyConfidence = 0.8
	DefaultCombinedConfidence    = 0.95
)

// Policy holds the confidence assigned to each evidence combination.
//
// A port match alone is a weak prior (a service can squat on any port). A
// pattern match alone is stronger evidence but contradicts the expected port.
// Both agreeing is the strongest outcome.
type Policy struct {
	PortOnly    float64
	PatternOnly float64
	Combined    float64
}

// DefaultPolicy returns the reference confidence tiers.
func DefaultPolicy() Policy {
	return Policy{
		PortOnly:    DefaultPortOnlyConfidence,
		PatternOnly: DefaultPatternOnlyConfidence,
		Combined:    DefaultCombinedConfidence,
	}
}

// Validate checks that the tiers are inside (0, 1] and strictly ordered
// PortOnly < PatternOnly < Combined.
func (p Policy) Validate() error {
	if p.PortOnly <= 0 || p.Combined > 1 {
		return fmt.Errorf("confidence tiers must lie in (0, 1]: port-only=%v combined=%v", p.PortOnly, p.Combined)
	}
	if !(p.PortOnly < p.PatternOnly && p.PatternOnly < p.Combined) {
		return fmt.Errorf("confidence tiers must be strictly ordered port-only < pattern-only < combined: %v < %v < %v",
			p.PortOnly, p.PatternOnly, p.Combined)
	}
	return nil
}
