/*
handlers.go - HTTP API handlers for the year planner

PURPOSE:
  Exposes the Day Store via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the planner package.

ENDPOINTS:
  Days:
    GET    /api/days                         All day records
    GET    /api/days/{date}                  One day (empty record if absent)
    POST   /api/days/{date}/plans            Add a single-day plan
    PUT    /api/days/{date}/plans/{id}       Edit a plan (new range + data)
    DELETE /api/days/{date}/plans/{id}       Remove a plan (cascades to group)
    GET    /api/days/{date}/plans/{id}/range Group span of a plan

  Plans:
    GET    /api/plans                        Consolidated plans
    POST   /api/plans                        Create over [start_date, end_date]
    GET    /api/plans/search?q=              Repository search

  Allowance:
    GET    /api/settings | PUT /api/settings
    GET    /api/allowance
    GET    /api/holidays
    GET    /api/upcoming?days=N&holidays=false

  Calendar:
    GET    /api/export.ics?holidays=true

  Session:
    GET/POST/DELETE /api/session

  Scenarios (scenarios.go):
    GET    /api/scenarios | GET /api/scenarios/current
    POST   /api/scenarios/load

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (planner.Validate*)
  3. Call the Day Store
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  - 400: Validation errors, invalid range, bad body
  - 404: Plan not found
  - 409: Operation not supported by the active repository
  - 503: Persistence failure (state was rolled back), no repository
  - 500: Anything else

SEE ALSO:
  - dto.go: Request/response data structures
  - session.go: Repository switching
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/year-planner/calendar"
	"github.com/warp/year-planner/factory"
	"github.com/warp/year-planner/planner"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Days    *planner.DayStore
	Session *Session

	// UpcomingDays is the default horizon of GET /api/upcoming.
	UpcomingDays int

	now func() time.Time

	// Track currently loaded demo scenario
	currentScenario string
}

// NewHandler creates a handler over days. session may be nil when sign-in
// is not offered.
func NewHandler(days *planner.DayStore, session *Session) *Handler {
	return &Handler{
		Days:         days,
		Session:      session,
		UpcomingDays: 30,
		now:          time.Now,
	}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// ListDays returns every day record keyed by date.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Days.Days())
}

// GetDay returns one day record.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := planner.ValidateDate("date", date); err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Days.Day(date))
}

// AddDayPlan adds a single-day plan to the date in the URL.
func (h *Handler) AddDayPlan(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	var req DayPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p := planner.Plan{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Time:            req.Time,
		Tag:             req.Tag,
		Notes:           req.Notes,
		RequiresHoliday: req.RequiresHoliday,
	}
	if err := h.Days.AddPlan(r.Context(), date, p); err != nil {
		writeDomainError(w, "Failed to add plan", err)
		return
	}

	created, _ := h.Days.FindPlan(date, p.ID)
	writeJSON(w, http.StatusCreated, created)
}

// EditPlan replaces the plan (and its group) with the request's range and
// data. The response is the edited plan under its new group id.
func (h *Handler) EditPlan(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	id := chi.URLParam(r, "id")

	original, ok := h.Days.FindPlan(date, id)
	if !ok {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StartDate == "" {
		req.StartDate = date
	}
	start, end, err := planner.ValidateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeDomainError(w, "Invalid date range", err)
		return
	}

	groupID, err := h.Days.EditPlan(r.Context(), original, start, end, req.plan())
	if err != nil {
		writeDomainError(w, "Failed to update plan", err)
		return
	}

	h.writeGroup(w, http.StatusOK, groupID)
}

// RemovePlan removes a plan. Grouped plans disappear from every day.
func (h *Handler) RemovePlan(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	id := chi.URLParam(r, "id")

	if err := h.Days.RemovePlan(r.Context(), date, id); err != nil {
		writeDomainError(w, "Failed to remove plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPlanRange returns the first and last day of a plan's group.
func (h *Handler) GetPlanRange(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	id := chi.URLParam(r, "id")

	p, ok := h.Days.FindPlan(date, id)
	if !ok {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}
	start, end, ok := h.Days.PlanRange(p)
	if !ok {
		writeError(w, http.StatusNotFound, "Plan range not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, PlanRangeDTO{
		PlanID:    p.ID,
		GroupID:   p.GroupID,
		StartDate: start,
		EndDate:   end,
	})
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// ListPlans returns every logical plan rebuilt from its daily instances.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Days.Consolidated())
}

// CreatePlan adds a plan on start_date, or over [start_date, end_date]
// when end_date is a later day.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, end, err := planner.ValidateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeDomainError(w, "Invalid date range", err)
		return
	}

	p := req.plan()
	p.ID = uuid.NewString()

	if end.After(start) {
		err = h.Days.AddMultiDayRange(r.Context(), start, end, p)
	} else {
		err = h.Days.AddPlan(r.Context(), start.String(), p)
	}
	if err != nil {
		writeDomainError(w, "Failed to create plan", err)
		return
	}

	h.writeGroup(w, http.StatusCreated, p.ID)
}

// SearchPlans matches the query against title, tag and notes.
func (h *Handler) SearchPlans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	plans, err := h.Days.Search(r.Context(), q)
	if err != nil {
		writeDomainError(w, "Search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResultDTO{Query: q, Results: plans})
}

func (h *Handler) writeGroup(w http.ResponseWriter, status int, groupID string) {
	for _, cp := range h.Days.Consolidated() {
		if cp.GroupID == groupID {
			writeJSON(w, status, cp)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "Plan missing after write", nil)
}

// =============================================================================
// ALLOWANCE HANDLERS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Days.Settings())
}

// UpdateSettings replaces the holiday settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Days.UpdateSettings(r.Context(), req.settings()); err != nil {
		writeDomainError(w, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Days.Settings())
}

// GetAllowance compares used vacation days against the allowance.
func (h *Handler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Days.Allowance())
}

// ListHolidays returns the bank holidays, optionally for one year.
// GET /api/holidays?year=2025
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays := h.Days.Holidays()
	year := r.URL.Query().Get("year")
	if year == "" {
		writeJSON(w, http.StatusOK, holidays)
		return
	}
	if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	filtered := []planner.Holiday{}
	for _, hol := range holidays {
		if len(hol.Date) >= 4 && hol.Date[:4] == year {
			filtered = append(filtered, hol)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

// GetUpcoming lists events for the next N days (default UpcomingDays).
func (h *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	n := h.UpcomingDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 366 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 366", err)
			return
		}
		n = parsed
	}
	includeHolidays := r.URL.Query().Get("holidays") != "false"

	items := h.Days.Upcoming(n, includeHolidays)
	writeJSON(w, http.StatusOK, UpcomingDTO{
		From:  planner.DateOf(h.now()).String(),
		Days:  n,
		Count: planner.CountEvents(items),
		Items: items,
	})
}

// =============================================================================
// CALENDAR
// =============================================================================

// ExportICS serves the consolidated plans as an iCalendar file.
// GET /api/export.ics?holidays=true
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	body := calendar.Export(h.Days.Consolidated(), h.Days.Holidays(), calendar.ExportOptions{
		IncludeHolidays: r.URL.Query().Get("holidays") == "true",
		Stamp:           h.now().UTC(),
	})
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="year-planner.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// =============================================================================
// SESSION
// =============================================================================

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		writeJSON(w, http.StatusOK, SessionDTO{})
		return
	}
	writeJSON(w, http.StatusOK, h.Session.State())
}

// SignIn switches to the user's document store and reloads.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		writeError(w, http.StatusServiceUnavailable, "Sign-in is not available", factory.ErrRemoteDisabled)
		return
	}

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Session.SignIn(r.Context(), req.UserID); err != nil {
		writeDomainError(w, "Failed to sign in", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.State())
}

// SignOut switches back to the local store and reloads.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		writeJSON(w, http.StatusOK, SessionDTO{})
		return
	}
	if err := h.Session.SignOut(r.Context()); err != nil {
		writeDomainError(w, "Failed to sign out", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.State())
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error chain.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case planner.IsClientError(err), errors.Is(err, factory.ErrMissingUser):
		return http.StatusBadRequest
	case planner.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrResetUnsupported):
		return http.StatusConflict
	case errors.Is(err, planner.ErrPersistence),
		errors.Is(err, planner.ErrNoRepository),
		errors.Is(err, factory.ErrRemoteDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
