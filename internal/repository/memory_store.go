package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// MemoryStore keeps every entity in process memory. Each instance owns its
// id sequences, so two stores never share numbering. Values are copied on
// the way in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]models.User
	items    map[int64]models.Item
	bookings map[int64]models.Booking
	comments map[int64]models.Comment
	requests map[int64]models.ItemRequest

	userSeq    atomic.Int64
	itemSeq    atomic.Int64
	bookingSeq atomic.Int64
	commentSeq atomic.Int64
	requestSeq atomic.Int64

	now func() time.Time
}

var _ domain.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]models.User),
		items:    make(map[int64]models.Item),
		bookings: make(map[int64]models.Booking),
		comments: make(map[int64]models.Comment),
		requests: make(map[int64]models.ItemRequest),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, 0) {
		return domain.ErrDuplicateEmail
	}
	now := s.now()
	user.ID = s.userSeq.Add(1)
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFoundf("user %d", id)
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.NotFoundf("user with email %s", email)
}

func (s *MemoryStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return domain.NotFoundf("user %d", user.ID)
	}
	if s.emailTaken(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

// emailTaken must be called with mu held.
func (s *MemoryStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item.ID = s.itemSeq.Add(1)
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = copyItem(*item)
	return nil
}

func (s *MemoryStore) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.NotFoundf("item %d", id)
	}
	out := copyItem(item)
	return &out, nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[item.ID]
	if !ok {
		return domain.NotFoundf("item %d", item.ID)
	}
	stored.Name = item.Name
	stored.Description = item.Description
	stored.Available = item.Available
	stored.UpdatedAt = s.now()
	s.items[item.ID] = stored
	item.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	return s.filterItems(page, func(item *models.Item) bool { return item.OwnerID == ownerID }), nil
}

func (s *MemoryStore) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	needle := strings.ToLower(text)
	return s.filterItems(page, func(item *models.Item) bool {
		return item.Available &&
			(strings.Contains(strings.ToLower(item.Name), needle) ||
				strings.Contains(strings.ToLower(item.Description), needle))
	}), nil
}

func (s *MemoryStore) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	wanted := make(map[int64]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	return s.filterItems(models.Page{}, func(item *models.Item) bool {
		return item.RequestID != nil && wanted[*item.RequestID]
	}), nil
}

func (s *MemoryStore) filterItems(page models.Page, match func(*models.Item) bool) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*models.Item
	for _, item := range s.items {
		item := copyItem(item)
		if match(&item) {
			items = append(items, &item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	lo, hi := page.Bounds(len(items))
	return items[lo:hi]
}

func copyItem(item models.Item) models.Item {
	if item.RequestID != nil {
		id := *item.RequestID
		item.RequestID = &id
	}
	return item
}

func (s *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertBooking(booking)
}

func (s *MemoryStore) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[booking.ItemID]
	if !ok {
		return domain.NotFoundf("item %d", booking.ItemID)
	}
	if !item.Available {
		return domain.ErrNotAvailable
	}
	return s.insertBooking(booking)
}

// insertBooking must be called with mu held.
func (s *MemoryStore) insertBooking(booking *models.Booking) error {
	now := s.now()
	booking.ID = s.bookingSeq.Add(1)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	stored := *booking
	stored.ItemName, stored.OwnerID = "", 0
	s.bookings[booking.ID] = stored
	return nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.NotFoundf("booking %d", id)
	}
	return s.withItem(b), nil
}

func (s *MemoryStore) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.NotFoundf("booking %d", id)
	}
	b.Status = status
	b.UpdatedAt = s.now()
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) UpdateBookingStatusFrom(ctx context.Context, id int64, from, to models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.NotFoundf("booking %d", id)
	}
	if b.Status != from {
		return fmt.Errorf("%w: booking %d", domain.ErrAlreadyDecided, id)
	}
	b.Status = to
	b.UpdatedAt = s.now()
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) GetBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	bookings := s.filterBookings(func(b *models.Booking) bool {
		if filter.BookerID != 0 && b.BookerID != filter.BookerID {
			return false
		}
		if filter.OwnerID != 0 && b.OwnerID != filter.OwnerID {
			return false
		}
		return matchesState(b, filter.State, filter.Now)
	})
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].Start.After(bookings[j].Start)
		}
		return bookings[i].ID > bookings[j].ID
	})
	lo, hi := filter.Page.Bounds(len(bookings))
	return bookings[lo:hi], nil
}

func (s *MemoryStore) GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	bookings := s.filterBookings(func(b *models.Booking) bool {
		return wanted[b.ItemID] && b.Status == models.StatusApproved
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.Before(bookings[j].Start) })
	return bookings, nil
}

func (s *MemoryStore) HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	found := s.filterBookings(func(b *models.Booking) bool {
		return b.ItemID == itemID && b.CompletedBy(bookerID, now)
	})
	return len(found) > 0, nil
}

func (s *MemoryStore) filterBookings(match func(*models.Booking) bool) []*models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Booking
	for _, b := range s.bookings {
		full := s.withItem(b)
		if match(full) {
			out = append(out, full)
		}
	}
	return out
}

// withItem fills the denormalized item fields; mu must be held.
func (s *MemoryStore) withItem(b models.Booking) *models.Booking {
	if item, ok := s.items[b.ItemID]; ok {
		b.ItemName = item.Name
		b.OwnerID = item.OwnerID
	}
	return &b
}

func matchesState(b *models.Booking, state models.BookingState, now time.Time) bool {
	switch state {
	case models.StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case models.StatePast:
		return b.End.Before(now)
	case models.StateFuture:
		return b.Start.After(now)
	case models.StateWaiting:
		return b.Status == models.StatusWaiting
	case models.StateRejected:
		return b.Status == models.StatusRejected
	default:
		return true
	}
}

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.Created.IsZero() {
		comment.Created = s.now()
	}
	comment.ID = s.commentSeq.Add(1)
	stored := *comment
	stored.AuthorName = ""
	s.comments[comment.ID] = stored
	return nil
}

func (s *MemoryStore) GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var out []*models.Comment
	for _, c := range s.comments {
		if !wanted[c.ItemID] {
			continue
		}
		c := c
		if u, ok := s.users[c.AuthorID]; ok {
			c.AuthorName = u.Name
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Created.IsZero() {
		req.Created = s.now()
	}
	req.ID = s.requestSeq.Add(1)
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryStore) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, domain.NotFoundf("request %d", id)
	}
	return &req, nil
}

func (s *MemoryStore) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	return s.filterRequests(models.Page{}, func(r *models.ItemRequest) bool { return r.RequestorID == requestorID }), nil
}

func (s *MemoryStore) GetRequestsExcept(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error) {
	return s.filterRequests(page, func(r *models.ItemRequest) bool { return r.RequestorID != userID }), nil
}

func (s *MemoryStore) filterRequests(page models.Page, match func(*models.ItemRequest) bool) []*models.ItemRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ItemRequest
	for _, r := range s.requests {
		r := r
		if match(&r) {
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].ID > out[j].ID
	})
	lo, hi := page.Bounds(len(out))
	return out[lo:hi]
}
