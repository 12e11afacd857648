package bus

import (
	"fmt"

	"github.com/opensource-finance/heron/internal/domain"
)

// New creates an event bus based on configuration. "channel" is the
// single-process default; "nats" is for distributed deployments.
func New(cfg domain.EventBusConfig) (domain.EventBus, error) {
	switch cfg.Type {
	case "channel":
		return NewChannelBus(cfg.ChannelBufferSize), nil

	case "nats":
		return NewNATSBus(cfg)

	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", cfg.Type)
	}
}
