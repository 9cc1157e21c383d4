package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	base
	repo   domain.Store
	config config.BookingConfig
}

var _ domain.BookingService = (*BookingService)(nil)

func NewBookingService(repo domain.Store, eventBus domain.EventPublisher, cfg config.BookingConfig, logger *zerolog.Logger, opts ...Option) *BookingService {
	return &BookingService{
		base:   newBase(eventBus, logger, opts),
		repo:   repo,
		config: cfg,
	}
}

func validateBookingInput(in models.BookingInput) error {
	if err := requireID("itemId", in.ItemID); err != nil {
		return err
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return domain.Invalidf("start and end are required")
	}
	if !in.End.After(in.Start) {
		return domain.Invalidf("end must be after start")
	}
	return nil
}

// CreateBooking registers a WAITING booking. Overlapping bookings of the
// same item are not rejected.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, in models.BookingInput) (*models.Booking, error) {
	if err := validateBookingInput(in); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByID(ctx, bookerID); err != nil {
		return nil, err
	}

	// Проверяем доступность
	item, err := s.repo.GetItemByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: item %d", domain.ErrNotAvailable, item.ID)
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		OwnerID:  item.OwnerID,
		BookerID: bookerID,
		Start:    in.Start.UTC(),
		End:      in.End.UTC(),
		Status:   models.StatusWaiting,
	}

	// Создаем бронирование с блокировкой
	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", booking.ItemID).
		Int64("booker_id", bookerID).
		Msg("booking created")
	s.publishBooking(events.EventBookingCreated, booking, bookerID)

	return booking, nil
}

// Approve records the owner's decision. A decided booking stays decided
// unless booking.allow_redecide is set.
func (s *BookingService) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, domain.Forbiddenf("user %d does not own item %d", ownerID, booking.ItemID)
	}

	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	if s.config.AllowRedecide {
		err = s.repo.UpdateBookingStatus(ctx, bookingID, status)
	} else {
		if booking.Status.Decided() {
			return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrAlreadyDecided, bookingID, booking.Status)
		}
		err = s.repo.UpdateBookingStatusFrom(ctx, bookingID, models.StatusWaiting, status)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyDecided) {
			s.logger.Warn().Int64("booking_id", bookingID).Msg("concurrent booking decision lost")
		}
		return nil, err
	}

	booking.Status = status
	booking.UpdatedAt = s.now()

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(status)).Msg("booking decided")
	s.publishBooking(eventType, booking, ownerID)

	return booking, nil
}

// GetBooking returns the booking to its booker or to the item owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.OwnerID != userID {
		return nil, domain.Forbiddenf("user %d may not view booking %d", userID, bookingID)
	}
	return booking, nil
}

func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state string, page models.Page) ([]*models.Booking, error) {
	return s.list(ctx, models.BookingFilter{BookerID: bookerID, Page: page}, bookerID, state)
}

func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state string, page models.Page) ([]*models.Booking, error) {
	return s.list(ctx, models.BookingFilter{OwnerID: ownerID, Page: page}, ownerID, state)
}

func (s *BookingService) list(ctx context.Context, filter models.BookingFilter, userID int64, rawState string) ([]*models.Booking, error) {
	state, ok := models.ParseBookingState(rawState)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownState, rawState)
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	filter.State = state
	filter.Now = s.now()
	bookings, err := s.repo.GetBookings(ctx, filter)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) publishBooking(eventType string, booking *models.Booking, changedBy int64) {
	s.publish(eventType, events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		OwnerID:   booking.OwnerID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ChangedBy: changedBy,
	})
}
