package handler

import (
	"net/http"
	"time"

	"Campus_Portal/internal/service"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	svc *service.NewsService
}

func NewNewsHandler(svc *service.NewsService) *NewsHandler {
	return &NewsHandler{svc: svc}
}

// NewsReq 更新时空字段保留原值
type NewsReq struct {
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Content  string    `json:"content"`
	ImageURL string    `json:"imageUrl"`
	Date     time.Time `json:"date"`
}

func (r NewsReq) input() service.NewsInput {
	return service.NewsInput{
		Title:    r.Title,
		Summary:  r.Summary,
		Content:  r.Content,
		ImageURL: r.ImageURL,
		Date:     r.Date,
	}
}

// List godoc
// @Summary  List news, newest first
// @Tags     news
// @Produce  json
// @Success  200 {array} model.News
// @Router   /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary  News by slug
// @Tags     news
// @Produce  json
// @Param    slug path string true "slug"
// @Success  200 {object} model.News
// @Failure  404 {object} ErrorResp
// @Router   /news/{slug} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	news, err := h.svc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

// Create godoc
// @Summary  Publish news
// @Tags     news
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body NewsReq true "news"
// @Success  201 {object} model.News
// @Failure  400 {object} ErrorResp
// @Router   /news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req NewsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	news, err := h.svc.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, news)
}

// Update godoc
// @Summary  Update news
// @Tags     news
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    slug path string  true "slug"
// @Param    body body NewsReq true "fields to change"
// @Success  200 {object} model.News
// @Failure  404 {object} ErrorResp
// @Router   /news/{slug} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req NewsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	news, err := h.svc.Update(c.Request.Context(), actor, c.Param("slug"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

// Delete godoc
// @Summary  Delete news
// @Tags     news
// @Produce  json
// @Security BearerAuth
// @Param    slug path string true "slug"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResp
// @Router   /news/{slug} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actor, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}
