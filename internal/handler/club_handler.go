package handler

import (
	"net/http"
	"time"

	"Campus_Portal/internal/service"

	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	svc *service.ClubService
}

func NewClubHandler(svc *service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

type ClubCreateReq struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	CoverImage   string   `json:"coverImage" binding:"required"`
	LeaderEmails []string `json:"leaderEmails"`
}

// ClubUpdateReq leaderEmails 缺省时不修改负责人
type ClubUpdateReq struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CoverImage   string    `json:"coverImage"`
	LeaderEmails *[]string `json:"leaderEmails"`
}

type EventCreateReq struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
}

// Create godoc
// @Summary  Create a club
// @Tags     clubs
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body ClubCreateReq true "club"
// @Success  201 {object} model.ClubDetail
// @Failure  400 {object} ErrorResp
// @Failure  403 {object} ErrorResp
// @Failure  409 {object} ErrorResp
// @Router   /clubs [post]
func (h *ClubHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req ClubCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	detail, err := h.svc.CreateClub(c.Request.Context(), actor, service.ClubInput{
		Name:         req.Name,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		LeaderEmails: req.LeaderEmails,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// Update godoc
// @Summary  Update a club and optionally its leaders
// @Tags     clubs
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int           true "club id"
// @Param    body body ClubUpdateReq true "fields to change"
// @Success  200 {object} model.ClubDetail
// @Failure  400 {object} ErrorResp
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id} [put]
func (h *ClubHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ClubUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	detail, err := h.svc.UpdateClub(c.Request.Context(), actor, clubID, service.ClubUpdate{
		Name:         req.Name,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		LeaderEmails: req.LeaderEmails,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Delete godoc
// @Summary  Delete a club
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "club id"
// @Success  200 {object} map[string]string
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id} [delete]
func (h *ClubHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteClub(c.Request.Context(), actor, clubID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// List godoc
// @Summary  List clubs
// @Tags     clubs
// @Produce  json
// @Success  200 {array} model.ClubSummary
// @Router   /clubs [get]
func (h *ClubHandler) List(c *gin.Context) {
	list, err := h.svc.ListClubs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary  Club detail
// @Tags     clubs
// @Produce  json
// @Param    id path int true "club id"
// @Success  200 {object} model.ClubDetail
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id} [get]
func (h *ClubHandler) Get(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.GetClub(c.Request.Context(), clubID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RequestJoin godoc
// @Summary  Request to join a club
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "club id"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResp
// @Failure  409 {object} ErrorResp
// @Router   /clubs/{id}/request [post]
func (h *ClubHandler) RequestJoin(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RequestJoin(c.Request.Context(), actor, clubID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// ListRequests godoc
// @Summary  Pending join requests
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "club id"
// @Success  200 {array} model.UserBrief
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id}/requests [get]
func (h *ClubHandler) ListRequests(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListRequests(c.Request.Context(), actor, clubID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Approve godoc
// @Summary  Approve a join request
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id     path int true "club id"
// @Param    userId path int true "requester id"
// @Success  200 {object} map[string]string
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id}/approve/{userId} [post]
func (h *ClubHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject godoc
// @Summary  Reject a join request
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id     path int true "club id"
// @Param    userId path int true "requester id"
// @Success  200 {object} map[string]string
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id}/reject/{userId} [post]
func (h *ClubHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *ClubHandler) decide(c *gin.Context, approve bool) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	var err error
	if approve {
		err = h.svc.ApproveRequest(c.Request.Context(), actor, clubID, userID)
	} else {
		err = h.svc.RejectRequest(c.Request.Context(), actor, clubID, userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// RemoveMember godoc
// @Summary  Remove a member
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id     path int true "club id"
// @Param    userId path int true "member id"
// @Success  200 {object} map[string]string
// @Failure  400 {object} ErrorResp
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id}/members/{userId} [delete]
func (h *ClubHandler) RemoveMember(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.RemoveMember(c.Request.Context(), actor, clubID, userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// AddEvent godoc
// @Summary  Add a club event
// @Tags     clubs
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int            true "club id"
// @Param    body body EventCreateReq true "event"
// @Success  201 {object} model.ClubEvent
// @Failure  400 {object} ErrorResp
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id}/events [post]
func (h *ClubHandler) AddEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req EventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	event, err := h.svc.AddEvent(c.Request.Context(), actor, clubID, service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// RemoveEvent godoc
// @Summary  Remove a club event
// @Tags     clubs
// @Produce  json
// @Security BearerAuth
// @Param    id      path int true "club id"
// @Param    eventId path int true "event id"
// @Success  200 {object} map[string]string
// @Failure  403 {object} ErrorResp
// @Failure  404 {object} ErrorResp
// @Router   /clubs/{id}/events/{eventId} [delete]
func (h *ClubHandler) RemoveEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	if err := h.svc.RemoveEvent(c.Request.Context(), actor, clubID, eventID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}
