package models

import "time"

type Booking struct {
	ID        int64         `json:"id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	ItemID    int64         `json:"itemId"`
	ItemName  string        `json:"itemName"`
	OwnerID   int64         `json:"ownerId"`
	BookerID  int64         `json:"bookerId"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type BookingInput struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Short returns the compact form used inside item views.
func (b *Booking) Short() *BookingShort {
	return &BookingShort{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

// CompletedBy reports whether userID booked this item, got approval and the
// booking period is already over at now.
func (b *Booking) CompletedBy(userID int64, now time.Time) bool {
	return b.BookerID == userID && b.Status == StatusApproved && b.End.Before(now)
}

// BookingFilter selects bookings either by booker or by item owner. Exactly
// one of BookerID and OwnerID is expected to be set.
type BookingFilter struct {
	BookerID int64
	OwnerID  int64
	State    BookingState
	Now      time.Time
	Page     Page
}
