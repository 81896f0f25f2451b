package signature

import (
	_ "embed"
)

//go:embed data/signatures.yaml
var embeddedCatalogYAML []byte

// BuiltinSignatures parses the signature catalog embedded in the binary. The
// catalog covers common well-known services (HTTP, HTTPS, SSH, FTP, SMTP,
// DNS, MySQL, PostgreSQL, Redis, MongoDB).
func BuiltinSignatures() ([]*Signature, error) {
	return ParseCatalogYAML(embeddedCatalogYAML)
}

// NewDefaultDatabase creates a database pre-populated with the built-in
// signature set.
func NewDefaultDatabase() (*Database, error) {
	sigs, err := BuiltinSignatures()
	if err != nil {
		return nil, err
	}
	db := NewDatabase()
	if err := db.Replace(sigs); err != nil {
		return nil, err
	}
	return db, nil
}
