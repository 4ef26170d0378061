package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/insight"
	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/logger"
)

// entryRequest is the write payload for POST and PUT.
type entryRequest struct {
	Date    string           `json:"date"`
	Content string           `json:"content"`
	Weather *journal.Weather `json:"weather,omitempty"`
}

// entryResponse reports a write. Emotion is null and Degraded true when
// derivation failed; the entry itself was still saved.
type entryResponse struct {
	Entry    journal.Entry        `json:"entry"`
	Emotion  *journal.Observation `json:"emotion,omitempty"`
	Degraded bool                 `json:"degraded,omitempty"`
}

// weekResponse is the weekly aggregate view.
type weekResponse struct {
	WeekStart    string          `json:"week_start"`
	WeekEnd      string          `json:"week_end"`
	Distribution []emotion.Share `json:"distribution"`
	Insight      insight.Weekly  `json:"insight"`
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.service.SaveEntry(r.Context(), s.userID(r), date, req.Content, req.Weather)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{
		Entry:    res.Entry,
		Emotion:  res.Observation,
		Degraded: res.DeriveErr != nil,
	})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.service.UpdateEntry(r.Context(), id, s.userID(r), date, req.Content, req.Weather)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{
		Entry:    res.Entry,
		Emotion:  res.Observation,
		Degraded: res.DeriveErr != nil,
	})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := s.service.EntryByID(r.Context(), id, s.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	var err error
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = parseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = parseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	entries, err := s.service.EntriesInRange(r.Context(), s.userID(r), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.service.DeleteEntry(r.Context(), id, s.userID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDay returns one date's entry together with its emotion summary.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.userID(r)

	entry, err := s.service.EntryByDate(r.Context(), userID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	obs, err := s.obs.ObservationsInRange(r.Context(), userID, date, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Entry    journal.Entry   `json:"entry"`
		Emotions []emotion.Share `json:"emotions,omitempty"`
	}{Entry: *entry, Emotions: emotion.Summarize(obs)})
}

// handleWeek aggregates the week containing the path date.
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := s.weekView(r, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAnalyzeWeek re-derives every entry in the week, then returns the
// refreshed aggregate. All-failed derivation is a 502 because the upstream
// classifier, not the request, is at fault.
func (s *Server) handleAnalyzeWeek(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.userID(r)
	weekStart, weekEnd := journal.WeekBounds(date)

	entries, err := s.service.EntriesInRange(r.Context(), userID, weekStart, weekEnd)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if len(entries) > 0 {
		derived, err := s.deriver.DeriveForWeek(r.Context(), entries, userID, weekStart, weekEnd)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if len(derived) == 0 {
			writeError(w, http.StatusBadGateway, "emotion classification is unavailable")
			return
		}
	}

	resp, err := s.weekView(r, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) weekView(r *http.Request, date time.Time) (*weekResponse, error) {
	userID := s.userID(r)
	weekStart, weekEnd := journal.WeekBounds(date)
	prevStart, prevEnd := journal.PreviousWeekBounds(date)

	entries, err := s.service.EntriesInRange(r.Context(), userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	current, err := s.obs.ObservationsInRange(r.Context(), userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.obs.ObservationsInRange(r.Context(), userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	distribution := emotion.Summarize(current)
	if distribution == nil {
		distribution = []emotion.Share{}
	}
	return &weekResponse{
		WeekStart:    weekStart.Format(time.DateOnly),
		WeekEnd:      weekEnd.Format(time.DateOnly),
		Distribution: distribution,
		Insight: insight.Analyze(insight.Input{
			Entries:      entries,
			Observations: current,
			Current:      distribution,
			Previous:     emotion.Summarize(previous),
		}, nil),
	}, nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", r.PathValue("id"))
	}
	return id, nil
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return d, nil
}

// writeServiceError maps the journal error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *journal.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s %s", verr.Field, verr.Reason))
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, journal.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, journal.ErrClassificationUnavailable):
		writeError(w, http.StatusBadGateway, "emotion classification is unavailable")
	default:
		logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", "err", err)
	}
}
