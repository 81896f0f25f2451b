package signature

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record is the serialized form of one signature in a catalog file.
type Record struct {
	Name        string          `yaml:"name" json:"name"`
	Port        int             `yaml:"port" json:"port"`
	Protocol    string          `yaml:"protocol" json:"protocol"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Patterns    []PatternRecord `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// PatternRecord tags a serialized pattern with its kind. Exactly one of
// Literal or Regex must be set.
type PatternRecord struct {
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Regex   string `yaml:"regex,omitempty" json:"regex,omitempty"`
}

// ParseCatalogYAML parses raw YAML bytes into signatures. It accepts either a
// bare list of records or a document wrapped in a "signatures" key.
func ParseCatalogYAML(data []byte) ([]*Signature, error) {
	var records []Record

	if err := yaml.Unmarshal(data, &records); err == nil && len(records) > 0 {
		return buildSignatures(records)
	}

	var wrapper struct {
		Signatures []Record `yaml:"signatures"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, &PersistenceError{Op: "parse", Err: fmt.Errorf("unmarshal signature catalog: %w", err)}
	}
	return buildSignatures(wrapper.Signatures)
}

// ParseCatalogJSON parses a JSON array of records, the format written by the
// JSON export and accepted for interop with other tooling.
func ParseCatalogJSON(data []byte) ([]*Signature, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceError{Op: "parse", Err: fmt.Errorf("unmarshal signature catalog: %w", err)}
	}
	return buildSignatures(records)
}

func buildSignatures(records []Record) ([]*Signature, error) {
	if len(records) == 0 {
		return nil, &PersistenceError{Op: "parse", Err: fmt.Errorf("no signatures found in catalog")}
	}

	out := make([]*Signature, 0, len(records))
	for i, rec := range records {
		sig, err := rec.Signature()
		if err != nil {
			return nil, &PersistenceError{Op: "parse", Err: fmt.Errorf("signature at index %d: %w", i, err)}
		}
		out = append(out, sig)
	}
	return out, nil
}

// Signature converts the record into a validated Signature.
func (r Record) Signature() (*Signature, error) {
	sig, err := New(r.Name, r.Port, r.Protocol)
	if err != nil {
		return nil, err
	}
	sig.WithDescription(r.Description)

	for _, p := range r.Patterns {
		switch {
		case p.Literal != "" && p.Regex != "":
			return nil, &InvalidSignatureError{Field: "patterns", Reason: "pattern entry sets both literal and regex"}
		case p.Literal != "":
			if err := sig.AddLiteral(p.Literal); err != nil {
				return nil, err
			}
		case p.Regex != "":
			if err := sig.AddRegex(p.Regex); err != nil {
				return nil, err
			}
		default:
			return nil, &InvalidSignatureError{Field: "patterns", Reason: "pattern entry sets neither literal nor regex"}
		}
	}
	return sig, nil
}

// RecordOf converts a signature into its serialized form.
func RecordOf(sig *Signature) Record {
	rec := Record{
		Name:        sig.Name(),
		Port:        sig.Port(),
		Protocol:    sig.Protocol(),
		Description: sig.Description(),
	}
	for _, p := range sig.Patterns() {
		switch p.Kind {
		case PatternRegex:
			rec.Patterns = append(rec.Patterns, PatternRecord{Regex: p.Value})
		default:
			rec.Patterns = append(rec.Patterns, PatternRecord{Literal: p.Value})
		}
	}
	return rec
}
