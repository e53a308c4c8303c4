package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/lumastream/mediagate/cmd/gateway/container"
	"github.com/lumastream/mediagate/cmd/gateway/handlers"
)

// RegisterMediaRoutes registers the range-streaming media routes
func RegisterMediaRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewMediaHandler(c.Components, c.Streams)

	media := e.Group("/media")
	{
		media.GET("/audio/*", h.GetAudio)   // GET /media/audio/{...path}
		media.HEAD("/audio/*", h.GetAudio)  // HEAD /media/audio/{...path}
		media.GET("/video/*", h.GetVideo)   // GET /media/video/{...path}
		media.HEAD("/video/*", h.GetVideo)  // HEAD /media/video/{...path}
	}
}
