package signature

import "testing"

func TestBuiltinSignatures_Load(t *testing.T) {
	sigs, err := BuiltinSignatures()
	if err != nil {
		t.Fatalf("embedded catalog must parse: %v", err)
	}
	if len(sigs) != 10 {
		t.Fatalf("expected 10 built-in signatures, got %d", len(sigs))
	}
}

func TestNewDefaultDatabase_WellKnownEndpoints(t *testing.T) {
	db, err := NewDefaultDatabase()
	if err != nil {
		t.Fatalf("default database: %v", err)
	}

	cases := []struct {
		name     string
		port     int
		protocol string
	}{
		{"HTTP", 80, "tcp"},
		{"HTTPS", 443, "tcp"},
		{"SSH", 22, "tcp"},
		{"FTP", 21, "tcp"},
		{"SMTP", 25, "tcp"},
		{"DNS", 53, "udp"},
		{"MySQL", 3306, "tcp"},
		{"PostgreSQL", 5432, "tcp"},
		{"Redis", 6379, "tcp"},
		{"MongoDB", 27017, "tcp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := db.GetByName(tc.name)
			if err != nil {
				t.Fatalf("missing built-in %s: %v", tc.name, err)
			}
			if sig.Port() != tc.port || sig.Protocol() != tc.protocol {
				t.Fatalf("expected %s at %d/%s, got %d/%s", tc.name, tc.port, tc.protocol, sig.Port(), sig.Protocol())
			}
			found := db.FindByPort(tc.port, tc.protocol)
			ok := false
			for _, s := range found {
				if s.Name() == tc.name {
					ok = true
				}
			}
			if !ok {
				t.Fatalf("index lookup for %d/%s did not return %s", tc.port, tc.protocol, tc.name)
			}
		})
	}
}

func TestNewDefaultDatabase_HTTPPatterns(t *testing.T) {
	db, err := NewDefaultDatabase()
	if err != nil {
		t.Fatalf("default database: %v", err)
	}
	httpSig, err := db.GetByName("HTTP")
	if err != nil {
		t.Fatalf("get HTTP: %v", err)
	}
	if !httpSig.Matches([]byte("GET / HTTP/1.1\r\nHost: x\r\n")) {
		t.Fatalf("built-in HTTP patterns must match a request line")
	}

	dnsSig, err := db.GetByName("DNS")
	if err != nil {
		t.Fatalf("get DNS: %v", err)
	}
	if len(dnsSig.Patterns()) != 0 {
		t.Fatalf("DNS is a port-only signature")
	}
}
