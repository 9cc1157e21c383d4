package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/models"
	"shareit/internal/repository"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testAPI struct {
	server *HTTPServer
	clock  *clock
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			HTTP:       config.APIHTTPConfig{Port: 8080},
			UserHeader: models.UserIDHeader,
		},
		Pagination: config.PaginationConfig{DefaultSize: 10, MaxSize: 50},
		Exports:    config.ExportConfig{MaxRows: 100},
	}
}

func newTestAPI(t *testing.T, cfg *config.Config, quotaStore domain.RateLimitStore) *testAPI {
	t.Helper()
	logger := zerolog.Nop()
	store := repository.NewMemoryStore()
	bus := events.NewEventBus()
	c := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	opt := service.WithClock(c.Now)

	services := Services{
		Users:    service.NewUserService(store, bus, &logger, opt),
		Items:    service.NewItemService(store, bus, cfg.Comments, &logger, opt),
		Bookings: service.NewBookingService(store, bus, cfg.Booking, &logger, opt),
		Requests: service.NewRequestService(store, bus, &logger, opt),
	}
	srv := NewHTTPServer(cfg, services, quotaStore, &logger)
	srv.now = c.Now
	return &testAPI{server: srv, clock: c}
}

// do performs a request; userID <= 0 sends no identity header.
func (a *testAPI) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if userID > 0 {
		req.Header.Set(models.UserIDHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/users", 0, models.UserInput{Name: name, Email: name + "@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[*models.User](t, rec)
}

func (a *testAPI) createItem(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/items", ownerID, map[string]any{
		"name": name, "description": name + " for rent", "available": available,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[*models.Item](t, rec)
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)

	rec := a.do(t, http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestUserEndpoints(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)

	ann := a.createUser(t, "ann")
	assert.Equal(t, "ann@example.com", ann.Email)

	rec := a.do(t, http.MethodPost, "/users", 0, models.UserInput{Name: "other", Email: "ann@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, "/users", 0, models.UserInput{Name: "bad", Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPatch, fmt.Sprintf("/users/%d", ann.ID), 0, fmt.Sprintf(`{"id":%d,"name":"Anna"}`, ann.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode[*models.User](t, rec)
	assert.Equal(t, "Anna", patched.Name)
	assert.Equal(t, "ann@example.com", patched.Email)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/users/%d", ann.ID), 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Anna", decode[*models.User](t, rec).Name)

	a.createUser(t, "bob")
	rec = a.do(t, http.MethodGet, "/users", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*models.User](t, rec), 2)

	rec = a.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", ann.ID), 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/users/%d", ann.ID), 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "not found")

	rec = a.do(t, http.MethodGet, "/users/abc", 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallerHeaderRequired(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)

	rec := a.do(t, http.MethodGet, "/items", 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set(models.UserIDHeader, "abc")
	rec = httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaginationParams(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	owner := a.createUser(t, "owner")
	for i := 0; i < 5; i++ {
		a.createItem(t, owner.ID, fmt.Sprintf("drill %d", i), true)
	}

	tests := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{name: "defaults", query: "", status: http.StatusOK, count: 5},
		{name: "first page", query: "?from=0&size=2", status: http.StatusOK, count: 2},
		{name: "from rounds down", query: "?from=3&size=2", status: http.StatusOK, count: 2},
		{name: "last page", query: "?from=4&size=2", status: http.StatusOK, count: 1},
		{name: "negative from", query: "?from=-1&size=2", status: http.StatusBadRequest},
		{name: "zero size", query: "?from=0&size=0", status: http.StatusBadRequest},
		{name: "size over max", query: "?size=51", status: http.StatusBadRequest},
		{name: "not a number", query: "?size=ten", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodGet, "/items"+tt.query, owner.ID, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				assert.Len(t, decode[[]*models.ItemView](t, rec), tt.count)
			}
		})
	}
}

func TestItemEndpoints(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	owner := a.createUser(t, "owner")
	other := a.createUser(t, "other")

	drill := a.createItem(t, owner.ID, "Drill", true)
	a.createItem(t, owner.ID, "Old drill", false)

	rec := a.do(t, http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), other.ID, `{"name":"Mine"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, `{"description":"Cordless"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[*models.Item](t, rec)
	assert.Equal(t, "Drill", updated.Name)
	assert.Equal(t, "Cordless", updated.Description)
	assert.True(t, updated.Available)

	rec = a.do(t, http.MethodGet, "/items/search?text=DRILL", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]*models.Item](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, drill.ID, found[0].ID)

	rec = a.do(t, http.MethodGet, "/items/search?text=", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/items/999", other.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/items", owner.ID, `{"name":"Saw","description":"sharp"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/items", owner.ID, `{"id":42,"name":"Saw","description":"sharp","available":true,"color":"red"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEqual(t, int64(42), decode[*models.Item](t, rec).ID)

	rec = a.do(t, http.MethodPost, "/items", owner.ID, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/items", 999, `{"name":"Saw","description":"sharp","available":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingScenario(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	owner := a.createUser(t, "owner")
	booker := a.createUser(t, "booker")
	stranger := a.createUser(t, "stranger")
	item := a.createItem(t, owner.ID, "Tent", true)

	now := a.clock.Now()
	rec := a.do(t, http.MethodPost, "/bookings", booker.ID, models.BookingInput{
		ItemID: item.ID,
		Start:  now.Add(time.Hour),
		End:    now.Add(25 * time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	booking := decode[*models.Booking](t, rec)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, "Tent", booking.ItemName)
	bookingPath := fmt.Sprintf("/bookings/%d", booking.ID)

	rec = a.do(t, http.MethodGet, bookingPath, stranger.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodPatch, bookingPath+"?approved=true", booker.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodPatch, bookingPath, owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPatch, bookingPath+"?approved=true", owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.StatusApproved, decode[*models.Booking](t, rec).Status)

	rec = a.do(t, http.MethodPatch, bookingPath+"?approved=false", owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, bookingPath, booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, decode[*models.Booking](t, rec).Status)

	rec = a.do(t, http.MethodGet, "/bookings/owner?state=future", owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*models.Booking](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/bookings?state=UNSUPPORTED", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "unknown state")

	rec = a.do(t, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID, `{"text":"Great tent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a.clock.Advance(48 * time.Hour)

	rec = a.do(t, http.MethodGet, "/bookings?state=PAST", booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	past := decode[[]*models.Booking](t, rec)
	require.Len(t, past, 1)
	assert.Equal(t, booking.ID, past[0].ID)

	rec = a.do(t, http.MethodGet, "/bookings?state=FUTURE", booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]*models.Booking](t, rec))

	rec = a.do(t, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID, `{"text":"Great tent"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comment := decode[*models.Comment](t, rec)
	assert.Equal(t, "booker", comment.AuthorName)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[*models.ItemView](t, rec)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, booking.ID, view.LastBooking.ID)
	assert.Nil(t, view.NextBooking)
	require.Len(t, view.Comments, 1)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[*models.ItemView](t, rec)
	assert.Nil(t, view.LastBooking)
	assert.Len(t, view.Comments, 1)
}

func TestBookingUnavailableItem(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	owner := a.createUser(t, "owner")
	booker := a.createUser(t, "booker")
	item := a.createItem(t, owner.ID, "Broken bike", false)

	now := a.clock.Now()
	rec := a.do(t, http.MethodPost, "/bookings", booker.ID, models.BookingInput{
		ItemID: item.ID, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/bookings", booker.ID, models.BookingInput{
		ItemID: 999, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingTimesNeedZone(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	owner := a.createUser(t, "owner")
	booker := a.createUser(t, "booker")
	item := a.createItem(t, owner.ID, "Bike", true)

	// время без зоны не принимается
	rec := a.do(t, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2030-01-01T10:00:00", "end": "2030-01-01T12:00:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2030-01-01T10:00:00Z", "end": "2030-01-01T15:00:00+03:00",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRequestEndpoints(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	asker := a.createUser(t, "asker")
	owner := a.createUser(t, "owner")

	rec := a.do(t, http.MethodPost, "/requests", asker.ID, models.ItemRequestInput{Description: "Need a kayak"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	req := decode[*models.ItemRequest](t, rec)

	rec = a.do(t, http.MethodPost, "/items", owner.ID, map[string]any{
		"name": "Kayak", "description": "Two seats", "available": true, "requestId": req.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/requests", asker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	own := decode[[]*models.RequestView](t, rec)
	require.Len(t, own, 1)
	require.Len(t, own[0].Items, 1)
	assert.Equal(t, "Kayak", own[0].Items[0].Name)

	rec = a.do(t, http.MethodGet, "/requests/all", owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*models.RequestView](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/requests/all", asker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]*models.RequestView](t, rec))

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/requests/%d", req.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Need a kayak", decode[*models.RequestView](t, rec).Description)

	rec = a.do(t, http.MethodGet, "/requests/999", owner.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportOwnerBookings(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)
	owner := a.createUser(t, "owner")
	booker := a.createUser(t, "booker")
	item := a.createItem(t, owner.ID, "Projector", true)

	now := a.clock.Now()
	rec := a.do(t, http.MethodPost, "/bookings", booker.ID, models.BookingInput{
		ItemID: item.ID, Start: now.Add(time.Hour), End: now.Add(3 * time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/bookings/owner/export?state=waiting", owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookings_1_WAITING_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Projector", rows[2][1])

	rec = a.do(t, http.MethodGet, "/bookings/owner/export?state=SOON", owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func (a *testAPI) doFrom(t *testing.T, remoteAddr, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set(models.UserIDHeader, header)
	rec := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, req)
	return rec.Code
}

func TestTokenBucketLimit(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 1}
	a := newTestAPI(t, cfg, nil)

	assert.Equal(t, http.StatusOK, a.doFrom(t, "10.0.0.1:5000", "7"))
	assert.Equal(t, http.StatusTooManyRequests, a.doFrom(t, "10.0.0.1:5001", "7"))
	assert.Equal(t, http.StatusOK, a.doFrom(t, "10.0.0.2:5000", "7"))
}

func TestTokenBucketIgnoresIdentityHeader(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 1}
	a := newTestAPI(t, cfg, nil)

	allowed := 0
	for i := 1; i <= 100; i++ {
		if a.doFrom(t, "10.0.0.1:5000", strconv.Itoa(i)) == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, a.server.RateLimiter().Len())
}

func TestRateLimiterSweepDropsIdleBuckets(t *testing.T) {
	c := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newRateLimiter(config.APIRateLimitConfig{RPS: 1, Burst: 1})
	l.now = c.Now

	l.getLimiter("ip:10.0.0.1")
	c.Advance(limiterIdleTTL / 2)
	l.getLimiter("ip:10.0.0.2")
	require.Equal(t, 2, l.Len())

	assert.Zero(t, l.Sweep())

	c.Advance(limiterIdleTTL/2 + time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())

	_, ok := l.limiters.Load("ip:10.0.0.2")
	assert.True(t, ok)
}

func TestQuotaOnlyCountsWrites(t *testing.T) {
	cfg := testConfig()
	cfg.API.Quota = config.APIQuotaConfig{Enabled: true, Limit: 1, WindowSeconds: 60}
	a := newTestAPI(t, cfg, repository.NewMemoryRateLimitRepository())

	rec := a.do(t, http.MethodPost, "/requests", 5, models.ItemRequestInput{Description: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/requests", 5, models.ItemRequestInput{Description: "x"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	for i := 0; i < 3; i++ {
		rec = a.do(t, http.MethodGet, "/requests", 5, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.NotFoundf("user %d", 1), http.StatusNotFound},
		{domain.ErrDuplicateEmail, http.StatusConflict},
		{domain.Forbiddenf("nope"), http.StatusForbidden},
		{domain.ErrUnknownState, http.StatusBadRequest},
		{domain.ErrAlreadyDecided, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", domain.ErrNotAvailable), http.StatusBadRequest},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}

func TestUnknownRoute(t *testing.T) {
	a := newTestAPI(t, testConfig(), nil)

	rec := a.do(t, http.MethodGet, "/nowhere", 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPut, "/users/1", 0, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
