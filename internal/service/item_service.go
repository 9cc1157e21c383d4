package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	base
	repo                    domain.Store
	requireCompletedBooking bool
}

var _ domain.ItemService = (*ItemService)(nil)

func NewItemService(repo domain.Store, eventBus domain.EventPublisher, cfg config.CommentsConfig, logger *zerolog.Logger, opts ...Option) *ItemService {
	return &ItemService{
		base:                    newBase(eventBus, logger, opts),
		repo:                    repo,
		requireCompletedBooking: cfg.RequiresCompletedBooking(),
	}
}

func validateItemInput(in models.ItemInput) error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	if err := requireText("description", in.Description); err != nil {
		return err
	}
	if in.Available == nil {
		return domain.Invalidf("available is required")
	}
	return nil
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, in models.ItemInput) (*models.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if in.RequestID != nil {
		if _, err := s.repo.GetRequest(ctx, *in.RequestID); err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	s.publish(events.EventItemCreated, events.ItemEventPayload{
		ItemID:    item.ID,
		OwnerID:   ownerID,
		Name:      item.Name,
		RequestID: item.RequestID,
	})
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.Forbiddenf("user %d does not own item %d", ownerID, itemID)
	}
	if err := requireTextPatch("name", patch.Name); err != nil {
		return nil, err
	}
	if err := requireTextPatch("description", patch.Description); err != nil {
		return nil, err
	}

	patch.Apply(item)
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns the item with its comments. Booking neighbours are only
// filled in when the viewer owns the item.
func (s *ItemService) GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*models.Item{item}, item.OwnerID == viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemView, error) {
	items, err := s.repo.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items, true)
}

// SearchItems returns nothing for blank text rather than every item.
func (s *ItemService) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	items, err := s.repo.SearchItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, in models.CommentInput) (*models.Comment, error) {
	if err := requireText("text", in.Text); err != nil {
		return nil, err
	}
	author, err := s.repo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	if s.requireCompletedBooking {
		ok, err := s.repo.HasCompletedBooking(ctx, authorID, itemID, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.Invalidf("user %d has no completed booking of item %d", authorID, itemID)
		}
	}

	comment := &models.Comment{
		Text:     in.Text,
		ItemID:   itemID,
		AuthorID: authorID,
		Created:  now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.AuthorName = author.Name

	s.publish(events.EventCommentAdded, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  authorID,
	})
	return comment, nil
}

// views builds item views with two batched reads, one for comments and one
// for approved bookings.
func (s *ItemService) views(ctx context.Context, items []*models.Item, withBookings bool) ([]*models.ItemView, error) {
	views := make([]*models.ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	comments, err := s.repo.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	commentsByItem := make(map[int64][]*models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	bookingsByItem := make(map[int64][]*models.Booking)
	if withBookings {
		bookings, err := s.repo.GetApprovedBookingsForItems(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		for _, b := range bookings {
			bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
		}
	}

	now := s.now()
	for _, item := range items {
		view := &models.ItemView{Item: *item, Comments: commentsByItem[item.ID]}
		if view.Comments == nil {
			view.Comments = []*models.Comment{}
		}
		if withBookings {
			view.LastBooking, view.NextBooking = neighbours(bookingsByItem[item.ID], now)
		}
		views = append(views, view)
	}
	return views, nil
}

// neighbours picks the latest booking that started before now and the
// earliest one that starts after now.
func neighbours(bookings []*models.Booking, now time.Time) (last, next *models.BookingShort) {
	var lastB, nextB *models.Booking
	for _, b := range bookings {
		switch {
		case b.Start.Before(now):
			if lastB == nil || b.Start.After(lastB.Start) {
				lastB = b
			}
		case b.Start.After(now):
			if nextB == nil || b.Start.Before(nextB.Start) {
				nextB = b
			}
		}
	}
	if lastB != nil {
		last = lastB.Short()
	}
	if nextB != nil {
		next = nextB.Short()
	}
	return last, next
}
