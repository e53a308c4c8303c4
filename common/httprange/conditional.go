package httprange

import "strings"

// ConditionalOutcome is the result of evaluating request validators
// against the resource's validators
type ConditionalOutcome int

const (
	// Proceed means no validator matched and the request continues
	Proceed ConditionalOutcome = iota
	// NotModified means the client's cached copy is current (status 304)
	NotModified
)

// EvaluateIfNoneMatch compares an If-None-Match header value against the
// resource's ETag. Evaluated before range resolution: validators are
// about resource identity, not the requested window, so a 304 is
// returned even for range requests.
func EvaluateIfNoneMatch(ifNoneMatch, etag string) ConditionalOutcome {
	ifNoneMatch = strings.TrimSpace(ifNoneMatch)
	if ifNoneMatch == "" || etag == "" {
		return Proceed
	}
	if ifNoneMatch == "*" {
		return NotModified
	}

	want := normalizeETag(etag)
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if normalizeETag(candidate) == want {
			return NotModified
		}
	}
	return Proceed
}

// normalizeETag strips the weak-validator prefix and surrounding quotes
func normalizeETag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}
