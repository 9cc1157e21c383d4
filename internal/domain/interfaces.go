package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// CreateBookingWithLock re-reads the item availability inside the write
	// and fails with ErrNotAvailable if the item was switched off meanwhile.
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	// UpdateBookingStatusFrom changes the status only if it still equals from,
	// returning ErrAlreadyDecided otherwise.
	UpdateBookingStatusFrom(ctx context.Context, id int64, from, to models.BookingStatus) error
	GetBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error)
	HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetRequestsExcept(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

// Store is the full persistence surface. Both the sqlite database and the
// in-memory store implement it.
type Store interface {
	UserRepository
	ItemRepository
	BookingRepository
	CommentRepository
	RequestRepository
}

type RateLimitStore interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	CreateUser(ctx context.Context, in models.UserInput) (*models.User, error)
	PatchUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, in models.ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemView, error)
	ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemView, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, in models.CommentInput) (*models.Comment, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID int64, in models.BookingInput) (*models.Booking, error)
	Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state string, page models.Page) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state string, page models.Page) ([]*models.Booking, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, requestorID int64, in models.ItemRequestInput) (*models.ItemRequest, error)
	ListOwn(ctx context.Context, requestorID int64) ([]*models.RequestView, error)
	ListOthers(ctx context.Context, userID int64, page models.Page) ([]*models.RequestView, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.RequestView, error)
}
