package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/dto"
	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/services"
	"ATRAX_BACK-END/internal/utils"
)

// EventsHandler manages event endpoints
type EventsHandler struct {
	events *services.EventService
	log    logrus.FieldLogger
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(events *services.EventService, logger logrus.FieldLogger) *EventsHandler {
	return &EventsHandler{events: events, log: logger}
}

// ListEvents handles GET /events with a date window and pagination
// @Summary List events
// @Description Events sorted by date ascending. page is the number of events to skip.
// @Tags events
// @Produce json
// @Param startDate query string false "inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "inclusive upper bound; a date-only value covers the whole day"
// @Param limit query int false "maximum number of events"
// @Param page query int false "number of events to skip"
// @Success 200 {array} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [get]
func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}

	events, err := h.events.List(r.Context(), filter)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, toEventResponse(&events[i], false))
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// GetEvent handles GET /events/{id}
// @Summary Get event detail
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func (h *EventsHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toEventResponse(event, true))
}

// CreateEvent handles POST /events
// @Summary Create a new event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EventRequest true "Event payload"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [post]
func (h *EventsHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	event, err := h.events.Create(r.Context(), userID, fields)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toEventResponse(event, false))
}

// UpdateEvent handles PUT /events/{id}
// @Summary Replace an event
// @Description Only the creator may update. Omitted fields are cleared. Attendees are notified.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.EventRequest true "Event payload"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [put]
func (h *EventsHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	event, err := h.events.Update(r.Context(), id, userID, fields)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toEventResponse(event, false))
}

// DeleteEvent handles DELETE /events/{id}
// @Summary Delete an event
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventsHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), id, userID); err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterAttendee handles POST /events/{id}/register
// @Summary Register for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} dto.UserRef "attendees after registration"
// @Failure 400 {object} dto.ErrorResponse "Event is full"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id}/register [post]
func (h *EventsHandler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	attendees, err := h.events.Register(r.Context(), id, userID)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toUserRefs(attendees))
}

// UnregisterAttendee handles DELETE /events/{id}/unregister
// @Summary Unregister from an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} dto.UserRef "attendees after removal"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id}/unregister [delete]
func (h *EventsHandler) UnregisterAttendee(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	attendees, err := h.events.Unregister(r.Context(), id, userID)
	if err != nil {
		utils.WriteAppError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toUserRefs(attendees))
}

func (h *EventsHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteAppError(w, r, h.log, apperrors.ErrUnauthorized)
	}
	return userID, ok
}

// eventID parses the {id} path variable. Malformed ids cannot name an event.
func (h *EventsHandler) eventID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteAppError(w, r, h.log, apperrors.NotFound("Event not found"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *EventsHandler) decodeFields(w http.ResponseWriter, r *http.Request) (models.EventFields, bool) {
	var req dto.EventRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return models.EventFields{}, false
	}

	fields := models.EventFields{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	}
	if req.Date != "" {
		date, _, err := utils.ParseDate(req.Date)
		if err != nil {
			utils.WriteAppError(w, r, h.log, apperrors.Validation("date must be RFC3339 or YYYY-MM-DD"))
			return models.EventFields{}, false
		}
		fields.Date = date
	}
	return fields, true
}

func parseEventFilter(r *http.Request) (models.EventFilter, error) {
	q := r.URL.Query()
	var filter models.EventFilter

	if v := q.Get("startDate"); v != "" {
		from, _, err := utils.ParseDate(v)
		if err != nil {
			return filter, apperrors.Validation("startDate must be RFC3339 or YYYY-MM-DD")
		}
		filter.From = &from
	}
	if v := q.Get("endDate"); v != "" {
		to, dateOnly, err := utils.ParseDate(v)
		if err != nil {
			return filter, apperrors.Validation("endDate must be RFC3339 or YYYY-MM-DD")
		}
		if dateOnly {
			to = utils.EndOfDay(to)
		}
		filter.To = &to
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, apperrors.Validation("limit must be an integer")
		}
		filter.Limit = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, apperrors.Validation("page must be an integer")
		}
		filter.Skip = n
	}
	return filter, nil
}

func toEventResponse(e *models.PopulatedEvent, withCount bool) dto.EventResponse {
	resp := dto.EventResponse{
		ID:           e.ID.String(),
		Title:        e.Title,
		Description:  e.Description,
		Date:         utils.FormatTimestamp(e.Date),
		Location:     e.Location,
		MaxAttendees: e.MaxAttendees,
		CreatorID:    e.CreatorID.String(),
		Attendees:    make([]string, 0, len(e.Attendees)),
		CreatedAt:    utils.FormatTimestamp(e.CreatedAt),
		UpdatedAt:    utils.FormatTimestamp(e.UpdatedAt),
	}
	if e.Creator != nil {
		resp.Creator = &dto.UserRef{ID: e.Creator.ID.String(), FullName: e.Creator.FullName, Email: e.Creator.Email}
	}
	for _, id := range e.Attendees {
		resp.Attendees = append(resp.Attendees, id.String())
	}
	if withCount {
		n := len(e.Attendees)
		resp.AttendeeCount = &n
	}
	return resp
}

func toUserRefs(users []models.UserSummary) []dto.UserRef {
	out := make([]dto.UserRef, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserRef{ID: u.ID.String(), FullName: u.FullName, Email: u.Email})
	}
	return out
}
