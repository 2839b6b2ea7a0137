package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ThingSpeakClient fetches channel feeds from the real telemetry source
// (api.thingspeak.com compatible).
type ThingSpeakClient struct {
	httpClient *resty.Client
	channelID  string
	readKey    string
	logger     *zap.Logger
}

func NewThingSpeakClient(baseURL, channelID, readKey string, logger *zap.Logger) *ThingSpeakClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &ThingSpeakClient{
		httpClient: client,
		channelID:  channelID,
		readKey:    readKey,
		logger:     logger,
	}
}

// FetchFeeds pulls the most recent `results` feed entries for the
// configured channel.
func (c *ThingSpeakClient) FetchFeeds(ctx context.Context, results int) (*models.FeedsResponse, error) {
	if c.channelID == "" {
		return nil, errors.New("upstream channel not configured")
	}

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("results", strconv.Itoa(results))
	if c.readKey != "" {
		req.SetQueryParam("api_key", c.readKey)
	}

	var out models.FeedsResponse
	resp, err := req.SetResult(&out).Get(fmt.Sprintf("/channels/%s/feeds.json", c.channelID))
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upstream returned HTTP %d", resp.StatusCode())
	}
	if out.Feeds == nil {
		return nil, errors.New("upstream returned no feeds")
	}
	return &out, nil
}

// UpstreamFeeds is the slice of the upstream client LiveFeedService
// needs.
type UpstreamFeeds interface {
	FetchFeeds(ctx context.Context, results int) (*models.FeedsResponse, error)
}

const (
	liveBackfillPoints  = 96
	liveBackfillSpacing = 30 * time.Minute
)

// LiveFeedService serves the live vitals series for the dashboard:
// upstream first, simulator backfill on any failure, so a consumer
// never observes a hard error on this path.
type LiveFeedService struct {
	upstream UpstreamFeeds
	sim      *Simulator
	logger   *zap.Logger
	now      func() time.Time
}

// NewLiveFeedService accepts a nil upstream for fully synthetic
// deployments.
func NewLiveFeedService(upstream UpstreamFeeds, sim *Simulator, logger *zap.Logger) *LiveFeedService {
	return &LiveFeedService{upstream: upstream, sim: sim, logger: logger, now: time.Now}
}

// Feeds returns up to `results` points. The synthetic side defaults
// and caps at 96 points of 30-minute spacing, 48 hours of history.
func (s *LiveFeedService) Feeds(ctx context.Context, results int) models.FeedsResponse {
	if results <= 0 || results > liveBackfillPoints {
		results = liveBackfillPoints
	}

	if s.upstream != nil {
		feeds, err := s.upstream.FetchFeeds(ctx, results)
		if err == nil {
			return *feeds
		}
		s.logger.Warn("Upstream telemetry unavailable, serving simulated feeds", zap.Error(err))
	}

	return models.FeedsFromValues(s.sim.Backfill(results, liveBackfillSpacing, s.now()))
}
