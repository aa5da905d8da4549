package server

import (
	"errors"
	"net/http"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/scheduler"
)

type meetingRequest struct {
	Subject         string            `json:"subject"`
	Start           string            `json:"start"`
	DurationMinutes int               `json:"duration_minutes"`
	Attendee        calendar.Attendee `json:"attendee"`
	Location        string            `json:"location"`
	Description     string            `json:"description"`
}

func (s *Server) handleCreateVideoMeeting(w http.ResponseWriter, r *http.Request) {
	s.createMeeting(w, r, scheduler.MeetingKindVideo)
}

func (s *Server) handleCreateInPersonMeeting(w http.ResponseWriter, r *http.Request) {
	s.createMeeting(w, r, scheduler.MeetingKindInPerson)
}

// createMeeting answers 201 on success, 400 for a request that was never
// sent to the calendar and 502 when the calendar rejected it. The body is
// the MeetingResult in every case.
func (s *Server) createMeeting(w http.ResponseWriter, r *http.Request, kind scheduler.MeetingKind) {
	var req meetingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	start, err := s.parseTime(req.Start)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DurationMinutes < 0 {
		respondError(w, http.StatusBadRequest, "duration_minutes must not be negative")
		return
	}

	meeting := scheduler.MeetingRequest{
		Subject:     req.Subject,
		Start:       start,
		Duration:    minutes(req.DurationMinutes),
		Attendee:    req.Attendee,
		Location:    req.Location,
		Description: req.Description,
	}

	var result scheduler.MeetingResult
	if kind == scheduler.MeetingKindInPerson {
		result = s.scheduler.CreateInPersonMeeting(r.Context(), meeting)
	} else {
		result = s.scheduler.CreateVideoMeeting(r.Context(), meeting)
	}

	switch {
	case result.Success:
		respondJSON(w, http.StatusCreated, result)
	case errors.Is(result.Err, scheduler.ErrInvalidMeeting):
		respondJSON(w, http.StatusBadRequest, result)
	case errors.Is(result.Err, calendar.ErrNotConfigured):
		respondJSON(w, http.StatusServiceUnavailable, result)
	case scheduler.IsBookingFailure(result.Err):
		respondJSON(w, http.StatusBadGateway, result)
	default:
		respondJSON(w, http.StatusInternalServerError, result)
	}
}
