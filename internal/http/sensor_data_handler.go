package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/models"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/service"

	"go.uber.org/zap"
)

// SensorDataHandler serves the sensor-data API consumed by the
// dashboard.
type SensorDataHandler struct {
	ingest   *service.IngestService
	query    *service.QueryService
	live     *service.LiveFeedService
	resolver service.IdentityResolver
	logger   *zap.Logger
}

func NewSensorDataHandler(
	ingest *service.IngestService,
	query *service.QueryService,
	live *service.LiveFeedService,
	resolver service.IdentityResolver,
	logger *zap.Logger,
) *SensorDataHandler {
	return &SensorDataHandler{
		ingest:   ingest,
		query:    query,
		live:     live,
		resolver: resolver,
		logger:   logger,
	}
}

// POST /sensor-data
// body: {o2Reading, bodyTemperature, pulseReading, timestamp?}
// 201 with the persisted reading; 400 on validation failure; 401 when
// the credential does not resolve.
func (h *SensorDataHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := h.resolver.Resolve(ctx, bearerToken(r))

	var raw service.RawReading
	if err := readBodyJSON(r, 1<<20, &raw); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reading, err := h.ingest.Submit(ctx, identity, raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthenticationRequired):
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
		case domain.IsValidation(err):
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create sensor reading", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.ReadingResponseFrom(reading))
}

// GET /sensor-data?range=24h|7d|30d&start=&end=&limit=
// Scoped to the resolved identity; guests see the deployment's guest
// policy. Feeds come back oldest first.
func (h *SensorDataHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := h.resolver.Resolve(ctx, bearerToken(r))

	spec, ok := windowSpecFromQuery(w, r)
	if !ok {
		return
	}

	readings, err := h.query.Query(ctx, identity, spec)
	if err != nil {
		h.logger.Error("Failed to list sensor readings", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, models.FeedsFrom(readings))
}

// GET /sensor-data/latest
// The single most recent reading for the scope, or a literal null body.
func (h *SensorDataHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := h.resolver.Resolve(ctx, bearerToken(r))

	reading, err := h.query.Latest(ctx, identity)
	if err != nil {
		h.logger.Error("Failed to get latest sensor reading", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if reading == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, models.LatestResponseFrom(reading))
}

// GET /sensor-data/live?results=
// Live series with graceful degradation: upstream telemetry when
// reachable, simulated feeds otherwise. Never errors.
func (h *SensorDataHandler) Live(w http.ResponseWriter, r *http.Request) {
	results := parseInt(r.URL.Query().Get("results"), 0)
	writeJSON(w, http.StatusOK, h.live.Feeds(r.Context(), results))
}

// GET /sensor-data/export?range=24h|7d|30d&start=&end=&limit=
// Same window semantics as List, delivered as an xlsx workbook.
func (h *SensorDataHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := h.resolver.Resolve(ctx, bearerToken(r))

	spec, ok := windowSpecFromQuery(w, r)
	if !ok {
		return
	}

	readings, err := h.query.Query(ctx, identity, spec)
	if err != nil {
		h.logger.Error("Failed to export sensor readings", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	buf, err := generateReadingsExport(readings)
	if err != nil {
		h.logger.Error("Failed to generate readings export", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="sensor-readings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}

// windowSpecFromQuery parses range/start/end/limit. Explicit bounds
// must be RFC3339; a malformed bound is a 400 (false return means the
// response was already written).
func windowSpecFromQuery(w http.ResponseWriter, r *http.Request) (service.WindowSpec, bool) {
	q := r.URL.Query()
	spec := service.WindowSpec{
		Range: q.Get("range"),
		Limit: parseInt(q.Get("limit"), 0),
	}

	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid start timestamp")
			return service.WindowSpec{}, false
		}
		spec.Start = &t
	}
	if e := q.Get("end"); e != "" {
		t, err := time.Parse(time.RFC3339Nano, e)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid end timestamp")
			return service.WindowSpec{}, false
		}
		spec.End = &t
	}
	return spec, true
}
