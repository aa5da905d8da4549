package server

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/omriShneor/salesdesk/internal/timeutil"
)

const maxRequestListLimit = 500

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	OK            bool       `json:"ok"`
	ResolvedTime  *time.Time `json:"resolved_time,omitempty"`
	FormattedDate string     `json:"formatted_date,omitempty"`
	FormattedTime string     `json:"formatted_time,omitempty"`
}

// handleParse resolves free text. ok=false means the caller should ask
// the prospect to rephrase.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	resolved, ok := s.scheduler.ParseTimeRequest(req.Text)
	if !ok {
		respondJSON(w, http.StatusOK, parseResponse{OK: false})
		return
	}

	loc := s.scheduler.Location()
	respondJSON(w, http.StatusOK, parseResponse{
		OK:            true,
		ResolvedTime:  &resolved,
		FormattedDate: timeutil.FormatDate(resolved, loc),
		FormattedTime: timeutil.FormatTimeSlot(resolved, loc),
	})
}

type availabilityRequest struct {
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
}

type availabilityResponse struct {
	scheduler.Availability
	Phrase string `json:"phrase"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
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

	availability, err := s.scheduler.CheckAvailability(r.Context(), start, minutes(req.DurationMinutes))
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	category := scheduler.PhraseAvailable
	if !availability.Available {
		category = scheduler.PhraseBusy
	}
	respondJSON(w, http.StatusOK, availabilityResponse{
		Availability: availability,
		Phrase:       s.scheduler.Phrase(category),
	})
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.URL.Query().Get("date"), s.scheduler.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	duration, err := queryInt(r, "duration", 0)
	if err != nil || duration < 0 {
		respondError(w, http.StatusBadRequest, "invalid duration")
		return
	}

	respondJSON(w, http.StatusOK, s.scheduler.FindAvailableSlots(r.Context(), day, minutes(duration)))
}

type alternativesRequest struct {
	RequestedTime   string `json:"requested_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	var req alternativesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	requested, err := s.parseTime(req.RequestedTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	alternatives := s.scheduler.SuggestAlternatives(r.Context(), requested, minutes(req.DurationMinutes))

	phrase := ""
	if len(alternatives) > 0 {
		phrase = s.scheduler.Phrase(scheduler.PhraseAlternative)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alternatives": alternatives,
		"phrase":       phrase,
	})
}

func (s *Server) handlePhrase(w http.ResponseWriter, r *http.Request) {
	category := scheduler.PhraseCategory(r.URL.Query().Get("category"))
	if !slices.Contains(scheduler.Categories, category) {
		respondError(w, http.StatusBadRequest, "category must be one of available, busy, alternative")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"category": string(category),
		"phrase":   s.scheduler.Phrase(category),
	})
}

type scheduleRequest struct {
	Text            string            `json:"text"`
	Subject         string            `json:"subject"`
	DurationMinutes int               `json:"duration_minutes"`
	Attendee        calendar.Attendee `json:"attendee"`
	Kind            string            `json:"kind"`
	Location        string            `json:"location"`
	Description     string            `json:"description"`
}

// handleSchedule runs the whole pipeline for one prospect message.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.DurationMinutes < 0 {
		respondError(w, http.StatusBadRequest, "duration_minutes must not be negative")
		return
	}

	outcome, err := s.scheduler.Schedule(r.Context(), scheduler.ScheduleRequest{
		Text:        req.Text,
		Subject:     req.Subject,
		Duration:    minutes(req.DurationMinutes),
		Attendee:    req.Attendee,
		Kind:        scheduler.MeetingKind(req.Kind),
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidMeeting):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, calendar.ErrNotConfigured):
			respondError(w, http.StatusServiceUnavailable, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, http.StatusServiceUnavailable, "request log not configured")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 || limit > maxRequestListLimit {
		respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	requests, err := s.db.ListSchedulingRequests(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list scheduling requests", err)
		respondError(w, http.StatusInternalServerError, "failed to list scheduling requests")
		return
	}

	counts, err := s.db.CountSchedulingRequestsByState(r.Context())
	if err != nil {
		s.log.Error("failed to count scheduling requests", err)
		respondError(w, http.StatusInternalServerError, "failed to count scheduling requests")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"counts":   counts,
	})
}
