package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookedItem(t *testing.T, store *MemoryStore) (*models.Item, *models.Booking) {
	t.Helper()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	item := &models.Item{Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1}
	require.NoError(t, store.CreateItem(ctx, item))
	b := &models.Booking{ItemID: item.ID, BookerID: 2, Start: start, End: start.Add(time.Hour), Status: models.StatusWaiting}
	require.NoError(t, store.CreateBookingWithLock(ctx, b))
	return item, b
}

func TestMemoryStoreUpdateBookingStatusFrom(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, b := newBookedItem(t, store)

	require.NoError(t, store.UpdateBookingStatusFrom(ctx, b.ID, models.StatusWaiting, models.StatusApproved))

	err := store.UpdateBookingStatusFrom(ctx, b.ID, models.StatusWaiting, models.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	err = store.UpdateBookingStatusFrom(ctx, 999, models.StatusWaiting, models.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrAlreadyDecided)

	got, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestMemoryStoreConcurrentApproval(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, b := newBookedItem(t, store)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	var winners, decided atomic.Int32
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			err := store.UpdateBookingStatusFrom(ctx, b.ID, models.StatusWaiting, models.StatusApproved)
			if err == nil {
				winners.Add(1)
			} else if errors.Is(err, domain.ErrAlreadyDecided) {
				decided.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Equal(t, int32(numGoroutines-1), decided.Load())
}

func TestMemoryStoreConcurrentBooking(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	item, _ := newBookedItem(t, store)
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			results <- store.CreateBookingWithLock(ctx, &models.Booking{
				ItemID:   item.ID,
				BookerID: int64(100 + id),
				Start:    start,
				End:      start.Add(time.Hour),
				Status:   models.StatusWaiting,
			})
		}(i)
	}
	wg.Wait()
	close(results)

	for err := range results {
		assert.NoError(t, err)
	}

	bookings, err := store.GetBookings(ctx, models.BookingFilter{
		OwnerID: item.OwnerID,
		State:   models.StateAll,
		Now:     start,
		Page:    models.PageFrom(0, 100),
	})
	require.NoError(t, err)
	assert.Len(t, bookings, numGoroutines+1)
}
