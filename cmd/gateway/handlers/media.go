package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lumastream/mediagate/cmd/gateway/service"
	"github.com/lumastream/mediagate/common/audit"
	"github.com/lumastream/mediagate/common/bootstrap"
	"github.com/lumastream/mediagate/common/clients"
	"github.com/lumastream/mediagate/common/httprange"
	"github.com/lumastream/mediagate/common/validation"
)

// MediaHandler serves ranged audio and video bytes to browser media
// elements. The pipeline per request: validate path, resolve metadata,
// evaluate conditional validators, resolve the byte range, build
// headers, stream the window.
type MediaHandler struct {
	components *bootstrap.Components
	streams    *service.StreamService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(components *bootstrap.Components, streams *service.StreamService) *MediaHandler {
	return &MediaHandler{
		components: components,
		streams:    streams,
	}
}

// GetAudio serves an audio object
// GET|HEAD /media/audio/*
func (h *MediaHandler) GetAudio(c echo.Context) error {
	return h.serve(c, validation.KindAudio)
}

// GetVideo serves a video object
// GET|HEAD /media/video/*
func (h *MediaHandler) GetVideo(c echo.Context) error {
	return h.serve(c, validation.KindVideo)
}

func (h *MediaHandler) serve(c echo.Context, kind validation.Kind) error {
	req := c.Request()
	ctx := req.Context()
	log := h.components.Logger

	rawPath := c.Param("*")

	segments, decodeOK := decodeSegments(rawPath)
	if !decodeOK {
		h.recordAudit(ctx, c, audit.EventPathRejected, kind, rawPath, validation.ReasonTraversal, "undecodable percent-escape")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid media path")
	}

	key, verr := validation.ValidatePath(segments, kind)
	if verr != nil {
		log.Warn("rejected media path",
			"kind", kind,
			"path", rawPath,
			"reason", verr.Reason,
		)
		h.recordAudit(ctx, c, audit.EventPathRejected, kind, rawPath, verr.Reason, verr.Segment)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid media path")
	}

	meta, err := h.streams.ResolveMetadata(ctx, key, kind)
	if err != nil {
		if errors.Is(err, service.ErrTypeMismatch) {
			h.recordAudit(ctx, c, audit.EventTypeMismatch, kind, key, "content_type_mismatch", "")
		}
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	}

	hdr := c.Response().Header()
	res := httprange.Resource{
		Size:         meta.Size,
		ContentType:  meta.ContentType,
		ETag:         meta.ETag,
		LastModified: meta.LastModified,
	}
	cacheControl := h.components.Config.Media.CacheControl

	// Conditional check comes before range resolution: validators are
	// about resource identity, so a 304 wins even for range requests.
	if httprange.EvaluateIfNoneMatch(req.Header.Get("If-None-Match"), meta.ETag) == httprange.NotModified {
		return c.NoContent(httprange.BuildNotModified(hdr, res, cacheControl))
	}

	rangeHeader := req.Header.Get("Range")
	outcome, window := httprange.Resolve(rangeHeader, meta.Size)

	status := httprange.BuildResponse(hdr, outcome, window, res, cacheControl)

	if outcome == httprange.NotSatisfiable {
		log.Warn("range not satisfiable",
			"path", key,
			"range", rangeHeader,
			"size", meta.Size,
		)
		return c.NoContent(status)
	}

	if req.Method == http.MethodHead {
		return c.NoContent(status)
	}

	rc, err := h.streams.Open(ctx, key, window.Start)
	if err != nil {
		h.recordAudit(ctx, c, audit.EventStreamFailure, kind, key, "open_failed", err.Error())
		return echo.NewHTTPError(http.StatusBadGateway, "media backend unavailable")
	}
	defer rc.Close()

	c.Response().WriteHeader(status)

	if err := h.streams.Copy(ctx, c.Response(), rc, window); err != nil {
		// Headers are committed; the status cannot change. Disconnects
		// during seeking are routine, backend read failures are not.
		switch {
		case errors.Is(err, context.Canceled):
			log.Debug("client disconnected mid-stream", "path", key)
		case errors.Is(err, clients.ErrBackend):
			log.Error("backend stream failed mid-transfer", "path", key, "error", err)
			h.recordAudit(ctx, c, audit.EventStreamFailure, kind, key, "read_failed", err.Error())
		default:
			log.Debug("stream aborted", "path", key, "error", err)
		}
		return nil
	}

	log.Debug("served media",
		"path", key,
		"status", status,
		"bytes", window.Length(),
	)
	return nil
}

func (h *MediaHandler) recordAudit(ctx context.Context, c echo.Context, kind string, mediaKind validation.Kind, path, reason, detail string) {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	h.components.Audit.Record(ctx, audit.NewEvent(kind, string(mediaKind), path, reason, detail, requestID))
}

// decodeSegments splits the wildcard remainder into percent-decoded
// path segments. Splitting happens before decoding so an encoded slash
// cannot smuggle extra separators into a segment.
func decodeSegments(raw string) ([]string, bool) {
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return nil, true
	}

	parts := strings.Split(raw, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return nil, false
		}
		segments = append(segments, decoded)
	}
	return segments, true
}
