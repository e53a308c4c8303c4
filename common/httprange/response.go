package httprange

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Resource carries the metadata needed to build response headers
type Resource struct {
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// BuildResponse populates h for the resolved range against the resource
// and returns the response status code.
//
//	Full           -> 200 with Content-Length = Size
//	Partial        -> 206 with Content-Range and the window's length
//	NotSatisfiable -> 416 with "Content-Range: bytes */<size>" and no body
//
// All non-416 responses advertise Accept-Ranges, the quoted ETag, the
// cache policy, and Last-Modified when known.
func BuildResponse(h http.Header, out Outcome, br ByteRange, res Resource, cacheControl string) int {
	if out == NotSatisfiable {
		h.Set("Content-Range", UnsatisfiableContentRange(res.Size))
		return http.StatusRequestedRangeNotSatisfiable
	}

	setValidatorHeaders(h, res, cacheControl)
	h.Set("Content-Type", res.ContentType)

	if out == Partial {
		h.Set("Content-Range", br.ContentRange())
		h.Set("Content-Length", strconv.FormatInt(br.Length(), 10))
		return http.StatusPartialContent
	}

	h.Set("Content-Length", strconv.FormatInt(res.Size, 10))
	return http.StatusOK
}

// BuildNotModified populates h for a 304 response and returns its
// status code. Validators and cache headers are kept; Content-Type and
// Content-Length are deliberately absent since no body follows.
func BuildNotModified(h http.Header, res Resource, cacheControl string) int {
	setValidatorHeaders(h, res, cacheControl)
	return http.StatusNotModified
}

func setValidatorHeaders(h http.Header, res Resource, cacheControl string) {
	h.Set("Accept-Ranges", "bytes")
	if res.ETag != "" {
		h.Set("ETag", quoteETag(res.ETag))
	}
	if cacheControl != "" {
		h.Set("Cache-Control", cacheControl)
	}
	if !res.LastModified.IsZero() {
		h.Set("Last-Modified", res.LastModified.UTC().Format(http.TimeFormat))
	}
}

// quoteETag wraps a raw validator in double quotes unless already quoted
func quoteETag(tag string) string {
	if strings.HasPrefix(tag, `"`) || strings.HasPrefix(tag, `W/"`) {
		return tag
	}
	return `"` + tag + `"`
}
