package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/repository"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/service"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBridge(t *testing.T) (*DeviceBridge, *repository.MemoryReadingsRepo, *service.TokenResolver) {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewMemoryReadingsRepo()
	resolver := service.NewTokenResolver(store.NewMemoryKV(), logger)
	ingest := service.NewIngestService(repo, logger)
	return NewDeviceBridge(ingest, resolver, logger), repo, resolver
}

func TestHandleMessage_IngestsReading(t *testing.T) {
	bridge, repo, resolver := newTestBridge(t)
	require.NoError(t, resolver.RegisterToken(context.Background(), "dev-tok", "owner-a", time.Hour))

	err := bridge.HandleMessage("phms/sensor-data",
		[]byte(`{"token":"dev-tok","o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`))
	require.NoError(t, err)

	stored, err := repo.Latest(context.Background(), "owner-a")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 97.0, stored.O2Reading)
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	bridge, _, _ := newTestBridge(t)
	err := bridge.HandleMessage("phms/sensor-data", []byte(`not json`))
	require.Error(t, err)
}

func TestHandleMessage_UnknownTokenDropped(t *testing.T) {
	bridge, repo, _ := newTestBridge(t)

	// unauthenticated device: dropped with a log line, not a handler error
	err := bridge.HandleMessage("phms/sensor-data",
		[]byte(`{"token":"bogus","o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`))
	require.NoError(t, err)

	stored, err := repo.Latest(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
