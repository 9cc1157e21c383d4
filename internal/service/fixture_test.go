package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock shared by the services of one fixture.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store    *repository.MemoryStore
	clock    *testClock
	bus      *events.EventBus
	received []string

	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

func newFixture(t *testing.T, bookingCfg config.BookingConfig, commentsCfg config.CommentsConfig) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	f := &fixture{
		store: repository.NewMemoryStore(),
		clock: &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
		bus:   events.NewEventBus(),
	}
	f.bus.SubscribeAll(func(e *events.Event) error {
		f.received = append(f.received, e.Type)
		return nil
	})

	opt := WithClock(f.clock.Now)
	f.users = NewUserService(f.store, f.bus, &logger, opt)
	f.items = NewItemService(f.store, f.bus, commentsCfg, &logger, opt)
	f.bookings = NewBookingService(f.store, f.bus, bookingCfg, &logger, opt)
	f.requests = NewRequestService(f.store, f.bus, &logger, opt)
	return f
}

func defaultFixture(t *testing.T) *fixture {
	return newFixture(t, config.BookingConfig{}, config.CommentsConfig{})
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), models.UserInput{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item, err := f.items.CreateItem(context.Background(), ownerID, models.ItemInput{
		Name:        name,
		Description: name + " description",
		Available:   &available,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) *models.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), bookerID, models.BookingInput{ItemID: itemID, Start: start, End: end})
	require.NoError(t, err)
	return b
}

func day(base time.Time, n int) time.Time {
	return base.AddDate(0, 0, n)
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }
