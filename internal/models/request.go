package models

import "time"

// ItemRequest is a standing request for an item nobody has listed yet.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestorId"`
	Created     time.Time `json:"created"`
}

type ItemRequestInput struct {
	Description string `json:"description"`
}

// RequestView is a request together with the items listed in answer to it.
type RequestView struct {
	ItemRequest
	Items []*Item `json:"items"`
}
