package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/repository"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/service"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/store"

	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*Router, *service.TokenResolver) {
	t.Helper()
	logger := zap.NewNop()

	repo := repository.NewMemoryReadingsRepo()
	resolver := service.NewTokenResolver(store.NewMemoryKV(), logger)
	ingest := service.NewIngestService(repo, logger)
	query := service.NewQueryService(repo, service.GuestReadEmpty, logger)
	live := service.NewLiveFeedService(nil, service.NewSimulator(), logger)

	h := NewSensorDataHandler(ingest, query, live, resolver, logger)
	router := NewRouter(logger)
	router.RegisterSensorDataRoutes(h)
	return router, resolver
}

func registerUser(t *testing.T, resolver *service.TokenResolver, token, ownerID string) {
	t.Helper()
	if err := resolver.RegisterToken(context.Background(), token, ownerID, 0); err != nil {
		t.Fatalf("failed to register token: %v", err)
	}
}

func doJSON(router *Router, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateThenQuery_RoundTrip(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-u", "00000000-0000-0000-0000-0000000000aa")

	// submit with an explicit timestamp T
	w := doJSON(router, http.MethodPost, "/sensor-data", "tok-u",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72,"timestamp":"2026-03-01T09:00:00Z"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"o2Reading":97`) || !strings.Contains(body, `"pulseReading":72`) {
		t.Fatalf("expected persisted reading back, got: %s", body)
	}
	if !strings.Contains(body, `"id":`) || !strings.Contains(body, `"ownerId":"00000000-0000-0000-0000-0000000000aa"`) {
		t.Fatalf("expected server-assigned fields, got: %s", body)
	}

	// a window containing T returns exactly one feed entry with the
	// stringified vitals and created_at == T
	w2 := doJSON(router, http.MethodGet,
		"/sensor-data?start=2026-03-01T08:00:00Z&end=2026-03-01T10:00:00Z", "tok-u", "")
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	feeds := w2.Body.String()
	want := `{"feeds":[{"created_at":"2026-03-01T09:00:00.000Z","field1":"97","field2":"72","field3":"36.8"}]}`
	if strings.TrimSpace(feeds) != want {
		t.Fatalf("feed mismatch:\n got: %s\nwant: %s", feeds, want)
	}
}

func TestCreate_OutOfRangeRejected(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-u", "owner-a")

	w := doJSON(router, http.MethodPost, "/sensor-data", "tok-u",
		`{"o2Reading":150,"bodyTemperature":36.8,"pulseReading":72}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "o2Reading") {
		t.Fatalf("expected offending field in message, got: %s", w.Body.String())
	}

	// zero rows persisted: a full-window query is empty
	w2 := doJSON(router, http.MethodGet, "/sensor-data?range=30d", "tok-u", "")
	if !strings.Contains(w2.Body.String(), `"feeds":[]`) {
		t.Fatalf("expected no persisted rows, got: %s", w2.Body.String())
	}
}

func TestCreate_MissingFieldsRejected(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-u", "owner-a")

	w := doJSON(router, http.MethodPost, "/sensor-data", "tok-u", `{"o2Reading":97}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Missing required fields") {
		t.Fatalf("expected missing-fields message, got: %s", w.Body.String())
	}
}

func TestCreate_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/sensor-data", "",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	// an unknown token is guest, not an error; still 401 on the write path
	w2 := doJSON(router, http.MethodPost, "/sensor-data", "bogus",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", w2.Code)
	}
}

func TestQuery_StaleWindowEmpty(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-u", "owner-a")

	// one reading, 10 days old
	old := time.Now().UTC().Add(-10 * 24 * time.Hour).Format(time.RFC3339)
	w := doJSON(router, http.MethodPost, "/sensor-data", "tok-u",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72,"timestamp":"`+old+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w2 := doJSON(router, http.MethodGet, "/sensor-data?range=7d", "tok-u", "")
	if !strings.Contains(w2.Body.String(), `"feeds":[]`) {
		t.Fatalf("expected empty feeds for 7d window, got: %s", w2.Body.String())
	}
}

func TestQuery_OwnerIsolation(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-a", "owner-a")
	registerUser(t, resolver, "tok-b", "owner-b")

	w := doJSON(router, http.MethodPost, "/sensor-data", "tok-a",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w2 := doJSON(router, http.MethodGet, "/sensor-data?range=24h", "tok-b", "")
	if !strings.Contains(w2.Body.String(), `"feeds":[]`) {
		t.Fatalf("owner B must not see owner A's readings, got: %s", w2.Body.String())
	}
}

func TestQuery_GuestSeesEmpty(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-a", "owner-a")
	doJSON(router, http.MethodPost, "/sensor-data", "tok-a",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`)

	w := doJSON(router, http.MethodGet, "/sensor-data", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("guest read must not error, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"feeds":[]`) {
		t.Fatalf("expected empty feeds for guest, got: %s", w.Body.String())
	}
}

func TestQuery_InvalidBound(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(router, http.MethodGet, "/sensor-data?start=notatime", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad start, got %d", w.Code)
	}
}

func TestLatest(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-u", "owner-a")

	// empty partition: literal null body
	w := doJSON(router, http.MethodGet, "/sensor-data/latest", "tok-u", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "null" {
		t.Fatalf("expected null body, got %d: %q", w.Code, w.Body.String())
	}

	// latest ignores any window: a months-old reading still comes back
	doJSON(router, http.MethodPost, "/sensor-data", "tok-u",
		`{"o2Reading":95,"bodyTemperature":36.5,"pulseReading":80,"timestamp":"2025-11-01T00:00:00Z"}`)
	doJSON(router, http.MethodPost, "/sensor-data", "tok-u",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72,"timestamp":"2025-10-01T00:00:00Z"}`)

	w2 := doJSON(router, http.MethodGet, "/sensor-data/latest", "tok-u", "")
	body := w2.Body.String()
	if !strings.Contains(body, `"o2Reading":95`) {
		t.Fatalf("expected the max-timestamp reading, got: %s", body)
	}
	if strings.Contains(body, `"id"`) || strings.Contains(body, `"ownerId"`) {
		t.Fatalf("latest must not expose internal identifiers, got: %s", body)
	}
}

func TestLive_AlwaysServesFeeds(t *testing.T) {
	router, _ := newTestRouter(t)

	// no upstream configured: simulated feeds, never an error
	w := doJSON(router, http.MethodGet, "/sensor-data/live?results=5", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("live endpoint must not fail, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"field1":`) {
		t.Fatalf("expected simulated feeds, got: %s", w.Body.String())
	}
}

func TestExport_ReturnsWorkbook(t *testing.T) {
	router, resolver := newTestRouter(t)
	registerUser(t, resolver, "tok-u", "owner-a")
	doJSON(router, http.MethodPost, "/sensor-data", "tok-u",
		`{"o2Reading":97,"bodyTemperature":36.8,"pulseReading":72}`)

	w := doJSON(router, http.MethodGet, "/sensor-data/export?range=24h", "tok-u", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheet") {
		t.Fatalf("expected xlsx content type, got %q", ct)
	}
	// xlsx is a zip container
	if body := w.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Fatalf("expected zip magic in workbook response")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(router, http.MethodDelete, "/sensor-data", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
