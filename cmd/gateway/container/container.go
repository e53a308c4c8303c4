package container

import (
	"fmt"

	"github.com/lumastream/mediagate/cmd/gateway/service"
	"github.com/lumastream/mediagate/common/bootstrap"
)

// Container holds all initialized services (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	Streams *service.StreamService
}

// NewContainer initializes all services once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	if components.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}

	streams := service.NewStreamService(
		components.Store,
		components.Logger,
		components.Config.Store.StatTimeout,
	)

	return &Container{
		Components: components,
		Streams:    streams,
	}, nil
}
