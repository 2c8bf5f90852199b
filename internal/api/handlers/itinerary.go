package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"
)

// ItineraryHandler exposes the planning pipeline over HTTP.
type ItineraryHandler struct {
	Planner *services.Planner
}

// Build handles POST /v1/itinerary: full trip planning.
func (h *ItineraryHandler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ItineraryRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	tc, prefs, cons, locks, err := req.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	it, err := h.Planner.BuildItinerary(r.Context(), services.BuildRequest{
		Context:     tc,
		Preferences: prefs,
		Constraints: cons,
		Locks:       locks,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromItinerary(it))
}

// Feedback handles POST /v1/itinerary/feedback: single-day repacking.
func (h *ItineraryHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.FeedbackRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	tc, prefs, cons, locks, date, actions, err := req.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	day, err := h.Planner.Repack(r.Context(), services.RepackRequest{
		Context:     tc,
		Preferences: prefs,
		Constraints: cons,
		Locks:       locks,
		Date:        date,
		Actions:     actions,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FeedbackResponse{Day: dto.FromDayPlan(day)})
}

// decodeStrict decodes exactly one JSON object, rejecting unknown fields and
// trailing content. A false return means the response is already written.
func decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeDomainError maps pipeline error types onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation   *domain.ValidationError
		conflict     *domain.ConflictError
		capacity     *domain.CapacityError
		verification *domain.VerificationError
	)

	switch {
	case errors.As(err, &validation):
		writeError(w, r, http.StatusUnprocessableEntity, validation.Error())
	case errors.As(err, &conflict):
		writeError(w, r, http.StatusConflict, conflict.Error())
	case errors.As(err, &capacity):
		writeError(w, r, http.StatusConflict, capacity.Error())
	case errors.As(err, &verification):
		writeError(w, r, http.StatusServiceUnavailable, verification.Error())
	default:
		log.Printf("itinerary request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
