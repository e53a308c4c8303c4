package httprange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateIfNoneMatch(t *testing.T) {
	cases := []struct {
		name        string
		ifNoneMatch string
		etag        string
		want        ConditionalOutcome
	}{
		{"absent header", "", "abc123", Proceed},
		{"exact match", "abc123", "abc123", NotModified},
		{"quoted request tag", `"abc123"`, "abc123", NotModified},
		{"quoted resource tag", "abc123", `"abc123"`, NotModified},
		{"both quoted", `"abc123"`, `"abc123"`, NotModified},
		{"weak validator prefix", `W/"abc123"`, "abc123", NotModified},
		{"wildcard", "*", "abc123", NotModified},
		{"mismatch", `"zzz"`, "abc123", Proceed},
		{"list with match", `"zzz", "abc123"`, "abc123", NotModified},
		{"list without match", `"zzz", "yyy"`, "abc123", Proceed},
		{"empty resource etag", `"abc123"`, "", Proceed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateIfNoneMatch(tc.ifNoneMatch, tc.etag))
		})
	}
}
