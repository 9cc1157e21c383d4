package models

import "strings"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// Decided reports whether the owner has already approved or rejected.
func (s BookingStatus) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// BookingState is the time/status filter accepted by booking listings.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState accepts any letter case; an empty value means ALL.
func ParseBookingState(raw string) (BookingState, bool) {
	s := BookingState(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case "":
		return StateAll, true
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, true
	default:
		return "", false
	}
}

const (
	// DefaultPageSize размер страницы, если клиент не передал size
	DefaultPageSize = 10

	// MaxPageSize верхняя граница size
	MaxPageSize = 100

	// DefaultExportLimit максимум строк в выгрузке xlsx
	DefaultExportLimit = 1000

	// UserIDHeader заголовок с id действующего пользователя
	UserIDHeader = "X-Sharer-User-Id"

	// RateLimitRequests количество изменяющих запросов в окне
	RateLimitRequests = 60

	// RateLimitWindow окно квоты в секундах
	RateLimitWindow = 60
)
