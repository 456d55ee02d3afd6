package event

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gatherly/server/internal/module/auth"
)

// Handler handles HTTP requests for events.
type Handler struct {
	service *Service
}

// NewHandler creates a new event handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the event routes. All routes require an
// authenticated caller.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	{
		events.POST("", h.Create)
		events.GET("", h.List)
		events.GET("/:id", h.Get)
		events.DELETE("/:id", h.Delete)
		events.POST("/:id/invite/attendee", h.InviteAttendees)
		events.POST("/:id/invite/collaborator", h.InviteCollaborators)
		events.PUT("/:id/respond/attendee", h.RespondAttendee)
		events.PUT("/:id/respond/collaborator", h.RespondCollaborator)
		events.GET("/:id/attendees", h.ListAttendees)
		events.GET("/:id/collaborators", h.ListCollaborators)
	}
}

// Create handles event creation.
//
//	@Summary		Create event
//	@Description	Create a new event with the caller as organizer
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateEventRequest	true	"Event details"
//	@Success		201		{object}	EventResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/events [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Create(c.Request.Context(), identity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List handles event listing with role filter, search and date range.
//
//	@Summary		List events
//	@Description	List events visible to the caller, filtered by role, text and date range
//	@Tags			Events
//	@Produce		json
//	@Security		BearerAuth
//	@Param			role		query		string	false	"Role filter"	Enums(all, organizer, attendee, invitee, collaborator, collaborator-invitee)
//	@Param			q			query		string	false	"Free-text search over title and description"
//	@Param			startDate	query		string	false	"Lower date bound (RFC3339 or YYYY-MM-DD)"
//	@Param			endDate		query		string	false	"Upper date bound (RFC3339 or YYYY-MM-DD)"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Page size"
//	@Param			sortBy		query		string	false	"Sort field"	Enums(date, title, created_at, updated_at)
//	@Param			order		query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200	{object}	ListEventsResponse
//	@Failure		400	{object}	map[string]string
//	@Router			/events [get]
func (h *Handler) List(c *gin.Context) {
	var query ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.List(c.Request.Context(), identity(c), &query)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles fetching a single event.
//
//	@Summary		Get event
//	@Description	Fetch a single event the caller participates in
//	@Tags			Events
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Event ID"
//	@Success		200	{object}	EventResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/events/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id, identity(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles event deletion.
//
//	@Summary		Delete event
//	@Description	Delete an event, organizer only
//	@Tags			Events
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Event ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/events/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, identity(c)); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted"})
}

// InviteAttendees handles attendee invitation batches.
//
//	@Summary		Invite attendees
//	@Description	Invite a batch of emails to attend, organizer or collaborator only
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Event ID"
//	@Param			request	body		InviteRequest	true	"Candidate emails"
//	@Success		200		{object}	EventResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/events/{id}/invite/attendee [post]
func (h *Handler) InviteAttendees(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.InviteAttendees(c.Request.Context(), id, identity(c), req.Emails)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// InviteCollaborators handles collaborator invitation batches.
//
//	@Summary		Invite collaborators
//	@Description	Invite a batch of emails to collaborate, organizer only
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Event ID"
//	@Param			request	body		InviteRequest	true	"Candidate emails"
//	@Success		200		{object}	EventResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/events/{id}/invite/collaborator [post]
func (h *Handler) InviteCollaborators(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.InviteCollaborators(c.Request.Context(), id, identity(c), req.Emails)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RespondAttendee handles an attendance RSVP.
//
//	@Summary		RSVP to an event
//	@Description	Record an attendance response (Going, Maybe, Not Going)
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Event ID"
//	@Param			request	body		RespondRequest	true	"Response status"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/events/{id}/respond/attendee [put]
func (h *Handler) RespondAttendee(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.RespondAttendee(c.Request.Context(), id, identity(c), req.Status); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Response recorded"})
}

// RespondCollaborator handles a collaboration response.
//
//	@Summary		Respond to a collaboration invitation
//	@Description	Record a collaboration response (Yes, No)
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Event ID"
//	@Param			request	body		RespondRequest	true	"Response status"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/events/{id}/respond/collaborator [put]
func (h *Handler) RespondCollaborator(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.RespondCollaborator(c.Request.Context(), id, identity(c), req.Status); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Response recorded"})
}

// ListAttendees handles the attendee listing.
//
//	@Summary		List attendees
//	@Description	List attendee records, organizer or collaborator only
//	@Tags			Events
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Event ID"
//	@Success		200	{object}	RosterResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/events/{id}/attendees [get]
func (h *Handler) ListAttendees(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.ListAttendees(c.Request.Context(), id, identity(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListCollaborators handles the collaborator listing.
//
//	@Summary		List collaborators
//	@Description	List collaborator records, organizer only
//	@Tags			Events
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Event ID"
//	@Success		200	{object}	RosterResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/events/{id}/collaborators [get]
func (h *Handler) ListCollaborators(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	resp, err := h.service.ListCollaborators(c.Request.Context(), id, identity(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// --- Helpers ---

func identity(c *gin.Context) Identity {
	return Identity{
		ID:    auth.GetUserID(c),
		Email: auth.GetUserEmail(c),
	}
}

func eventID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_event_id"})
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event_not_found", "message": "Event not found"})
	case errors.Is(err, ErrNotInvited):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_invited", "message": "You are not invited to this event"})
	case errors.Is(err, ErrNotInvitedToCollaborate):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_invited_to_collaborate", "message": "You are not invited to collaborate on this event"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Access denied"})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
