package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/service"

	"go.uber.org/zap"
)

// deviceMessage is what a device publishes: its provisioning token plus
// the raw reading fields.
type deviceMessage struct {
	Token string `json:"token"`
	service.RawReading
}

// DeviceBridge feeds MQTT-published readings through the same ingestion
// path as the HTTP API, so device writes get identical validation and
// ownership scoping. Bad messages are dropped with a log line; the
// subscription itself never stops.
type DeviceBridge struct {
	ingest   *service.IngestService
	resolver service.IdentityResolver
	logger   *zap.Logger
}

func NewDeviceBridge(ingest *service.IngestService, resolver service.IdentityResolver, logger *zap.Logger) *DeviceBridge {
	return &DeviceBridge{ingest: ingest, resolver: resolver, logger: logger}
}

// HandleMessage satisfies MessageHandler.
func (b *DeviceBridge) HandleMessage(topic string, payload []byte) error {
	var msg deviceMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal device message: %w", err)
	}

	ctx := context.Background()
	identity := b.resolver.Resolve(ctx, msg.Token)
	if _, err := b.ingest.Submit(ctx, identity, msg.RawReading); err != nil {
		b.logger.Warn("Dropping device reading",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
	return nil
}
