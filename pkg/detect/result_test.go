package detect

import (
	"testing"

	"github.com/netsig/netsig/pkg/signature"
)

func sigNamed(t *testing.T, name string) *signature.Signature {
	t.Helper()
	sig, err := signature.New(name, 1, "tcp")
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	return sig
}

func TestResult_OrderingConfidenceThenName(t *testing.T) {
	matches := []Match{
		{Signature: sigNamed(t, "Low"), Confidence: 0.5},
		{Signature: sigNamed(t, "B-high"), Confidence: 0.95},
		{Signature: sigNamed(t, "A-high"), Confidence: 0.95},
	}
	res := newResult(1, "tcp", false, matches)

	got := res.Matches()
	want := []string{"A-high", "B-high", "Low"}
	for i := range want {
		if got[i].Signature.Name() != want[i] {
			t.Fatalf("expected order %v, got %s at %d", want, got[i].Signature.Name(), i)
		}
	}
}

func TestResult_EmptySentinels(t *testing.T) {
	res := newResult(9999, "tcp", false, nil)
	if res.Best() != nil {
		t.Fatalf("Best must be nil for an empty result")
	}
	if res.Confidence() != 0.0 {
		t.Fatalf("Confidence must be 0.0 for an empty result")
	}
	if res.Len() != 0 || len(res.Matches()) != 0 {
		t.Fatalf("empty result must have no matches")
	}
}

func TestResult_MatchesReturnsCopy(t *testing.T) {
	res := newResult(1, "tcp", false, []Match{{Signature: sigNamed(t, "X"), Confidence: 0.5}})

	got := res.Matches()
	got[0].Confidence = 0.0

	if res.Confidence() != 0.5 {
		t.Fatalf("mutating the returned slice must not affect the result")
	}
}

func TestResult_BestReturnsCopy(t *testing.T) {
	res := newResult(1, "tcp", false, []Match{{Signature: sigNamed(t, "X"), Confidence: 0.5}})

	best := res.Best()
	best.Confidence = 0.0

	if res.Confidence() != 0.5 {
		t.Fatalf("mutating the best match must not affect the result")
	}
}
