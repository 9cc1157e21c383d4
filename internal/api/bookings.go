package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"shareit/internal/domain"
	"shareit/internal/export"
	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := s.callerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var in models.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.services.Bookings.CreateBooking(r.Context(), bookerID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := s.callerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		s.writeServiceError(w, r, domain.Invalidf("approved must be true or false"))
		return
	}

	booking, err := s.services.Bookings.Approve(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.services.Bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.services.Bookings.ListByBooker)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.services.Bookings.ListByOwner)
}

type bookingLister func(ctx context.Context, id int64, state string, page models.Page) ([]*models.Booking, error)

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, list bookingLister) {
	userID, err := s.callerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	page, err := s.pageParams(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	bookings, err := list(r.Context(), userID, r.URL.Query().Get("state"), page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleExportOwnerBookings returns the owner's bookings for the requested
// state as an XLSX attachment, capped at exports.max_rows.
func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := s.callerID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	rawState := r.URL.Query().Get("state")
	page := models.Page{Offset: 0, Limit: s.cfg.Exports.MaxRows}
	bookings, err := s.services.Bookings.ListByOwner(r.Context(), ownerID, rawState, page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	state, _ := models.ParseBookingState(rawState)

	var buf bytes.Buffer
	title := fmt.Sprintf("Owner %d: %s", ownerID, state)
	if err := export.WriteBookings(&buf, title, bookings); err != nil {
		s.writeServiceError(w, r, fmt.Errorf("export bookings: %w", err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(ownerID, state, s.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
