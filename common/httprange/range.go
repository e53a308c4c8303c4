// Package httprange implements the HTTP range and conditional-request
// semantics used by the media gateway: single-range parsing and
// clamping, If-None-Match evaluation, and response header assembly.
package httprange

import (
	"fmt"
	"strconv"
	"strings"
)

// Outcome classifies a resolved Range header
type Outcome int

const (
	// Full means the entire object is delivered (status 200)
	Full Outcome = iota
	// Partial means a single clamped byte window is delivered (status 206)
	Partial
	// NotSatisfiable means the requested window lies outside the object
	// (status 416)
	NotSatisfiable
)

// ByteRange is the exact inclusive byte window to deliver.
// Invariant for Partial outcomes: 0 <= Start <= End < Total.
type ByteRange struct {
	Start int64
	End   int64
	Total int64
}

// Length returns the number of bytes in the window
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a 206 response
func (r ByteRange) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.Total)
}

// UnsatisfiableContentRange formats the Content-Range header value for a
// 416 response
func UnsatisfiableContentRange(total int64) string {
	return fmt.Sprintf("bytes */%d", total)
}

// Resolve parses a Range request header against the object's total size.
//
// Only the single-range grammar "bytes=<start>-<end>" is honored,
// including the open form "bytes=<start>-" and the suffix form
// "bytes=-<n>". Anything that fails to match, including multi-range
// headers, degrades to Full rather than erroring: some real clients send
// slightly malformed ranges and a full response keeps playback working.
//
// For Full the returned window covers the whole object.
func Resolve(header string, total int64) (Outcome, ByteRange) {
	full := ByteRange{Start: 0, End: total - 1, Total: total}

	header = strings.TrimSpace(header)
	if header == "" {
		return Full, full
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return Full, full
	}

	dash := strings.Index(spec, "-")
	if dash < 0 {
		return Full, full
	}

	startStr := strings.TrimSpace(spec[:dash])
	endStr := strings.TrimSpace(spec[dash+1:])

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return Full, full

	case startStr == "":
		// suffix form: last n bytes
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n < 0 {
			return Full, full
		}
		start = total - n
		if start < 0 {
			start = 0
		}
		end = total - 1

	default:
		var err error
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return Full, full
		}
		if endStr == "" {
			end = total - 1
		} else {
			end, err = strconv.ParseInt(endStr, 10, 64)
			if err != nil || end < 0 {
				return Full, full
			}
			if end > total-1 {
				end = total - 1
			}
		}
	}

	if start > end || start >= total {
		return NotSatisfiable, ByteRange{Total: total}
	}

	return Partial, ByteRange{Start: start, End: end, Total: total}
}
