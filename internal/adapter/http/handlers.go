package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.Countries(r.Context()))
}

func (s *Server) handleComparableCountries(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.ComparableCountries(r.Context()))
}

func (s *Server) handleIndicators(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.Indicators)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	start, end, err := s.yearRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.dash.IndicatorTrend(r.Context(), vars["code"], vars["indicator"], start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleHappiness(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", s.dash.Bounds().Max)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.dash.HappinessScore(r.Context(), mux.Vars(r)["code"], year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	start, end, err := s.yearRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.dash.Compare(r.Context(), vars["code"], vars["indicator"], start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	tf := domain.Timeframe(r.URL.Query().Get("timeframe"))
	out, err := s.dash.CountryProfile(r.Context(), mux.Vars(r)["code"], tf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", s.dash.Bounds().Max)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.dash.RegionalSummary(r.Context(), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handlePerformers(w http.ResponseWriter, r *http.Request) {
	out, err := s.dash.RegionPerformers(r.Context(), mux.Vars(r)["region"], r.URL.Query().Get("metric"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

// yearRange reads start and end, defaulting to the full accepted window.
func (s *Server) yearRange(r *http.Request) (int, int, error) {
	b := s.dash.Bounds()
	start, err := intParam(r, "start", b.Min)
	if err != nil {
		return 0, 0, err
	}
	end, err := intParam(r, "end", b.Max)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.InvalidSelectionError{Field: name, Reason: fmt.Sprintf("%q is not a year", raw)}
	}
	return v, nil
}

// writeError maps domain errors onto status codes. Internal details are
// logged, not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNoOverlap):
		status, msg = http.StatusUnprocessableEntity, domain.ErrNoOverlap.Error()
	case errors.Is(err, domain.ErrNoData):
		status, msg = http.StatusNotFound, domain.ErrNoData.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "upstream timeout"
	}

	logger := s.requestLogger(r)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, errorBody{Error: msg})
}
