package validation

import (
	"fmt"
	"path"
	"strings"
)

// Rejection reason codes, stable for log analysis and audit records
const (
	ReasonTraversal        = "path_traversal"
	ReasonInvalidExtension = "invalid_extension"
	ReasonNullByte         = "null_byte"
	ReasonTooLong          = "too_long"
)

// MaxPathLength bounds the reconstructed object key. Real library paths
// sit far below this; anything longer is a pathological input.
const MaxPathLength = 1024

// ValidationError describes a rejected media path. Rejections happen
// before any backend call is made.
type ValidationError struct {
	Reason  string
	Segment string
}

func (e *ValidationError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("invalid media path (%s): %q", e.Reason, e.Segment)
	}
	return fmt.Sprintf("invalid media path (%s)", e.Reason)
}

// ValidatePath checks decoded path segments against the gateway's path
// rules and returns the object key to use against the backend store.
// Rules are applied in order and the first failure wins:
//
//  1. every segment must be non-empty, must not be "." or "..", and must
//     not contain a path separator or NUL byte
//  2. the final segment must carry an extension from the allow-list of
//     the requested media kind
//  3. the reconstructed key must not exceed MaxPathLength
//
// Segments must already be percent-decoded by the caller.
func ValidatePath(segments []string, kind Kind) (string, *ValidationError) {
	if len(segments) == 0 {
		return "", &ValidationError{Reason: ReasonTraversal}
	}

	for _, seg := range segments {
		if strings.ContainsRune(seg, 0) {
			return "", &ValidationError{Reason: ReasonNullByte, Segment: seg}
		}
		if seg == "" || seg == "." || seg == ".." {
			return "", &ValidationError{Reason: ReasonTraversal, Segment: seg}
		}
		if strings.ContainsAny(seg, `/\`) {
			return "", &ValidationError{Reason: ReasonTraversal, Segment: seg}
		}
	}

	final := segments[len(segments)-1]
	ext := strings.ToLower(path.Ext(final))
	if ext == "" || !kind.AllowsExtension(ext) {
		return "", &ValidationError{Reason: ReasonInvalidExtension, Segment: final}
	}

	key := strings.Join(segments, "/")
	if len(key) > MaxPathLength {
		return "", &ValidationError{Reason: ReasonTooLong}
	}

	return key, nil
}
