package markers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func set(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func TestExprMatch(t *testing.T) {
	tests := []struct {
		expr  string
		tags  map[string]bool
		match bool
	}{
		{"sanity", set("sanity"), true},
		{"sanity", set("smoke"), false},
		{"not load", set("sanity"), true},
		{"not load", set("load"), false},
		{"sanity and not load", set("sanity"), true},
		{"sanity and not load", set("sanity", "load"), false},
		{"grpc_api or http_gate", set("http_gate"), true},
		{"grpc_api or http_gate", set("s3_gate"), false},
		// `and` binds tighter than `or`.
		{"sanity or smoke and load", set("sanity"), true},
		{"sanity or smoke and load", set("smoke"), false},
		{"(sanity or smoke) and load", set("sanity"), false},
		{"(sanity or smoke) and load", set("smoke", "load"), true},
		{"not (failover or load)", set("sanity"), true},
		{"not (failover or load)", set("failover"), false},
	}

	for _, tt := range tests {
		e, err := ParseExpr(tt.expr)
		require.NoError(t, err, tt.expr)
		require.Equal(t, tt.match, e.Match(tt.tags), "expr %q against %v", tt.expr, tt.tags)
	}
}

func TestExprParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"and",
		"sanity and",
		"sanity or or smoke",
		"(sanity",
		"sanity)",
		"not",
	} {
		_, err := ParseExpr(src)
		require.Error(t, err, "expected parse failure for %q", src)
	}
}

func TestCompileRejectsUnknownMarker(t *testing.T) {
	r, err := Parse(registrySrc)
	require.NoError(t, err)

	_, err = r.Compile("sanity and not bogus")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bogus")

	e, err := r.Compile("sanity and not load")
	require.NoError(t, err)
	require.True(t, e.Match(set("sanity")))
}
