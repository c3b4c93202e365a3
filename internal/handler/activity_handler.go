package handler

import (
	"net/http"

	"Campus_Portal/internal/service"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// Recent godoc
// @Summary  Activities of the last 24 hours, newest first
// @Tags     activities
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} model.Activity
// @Router   /activities/recent [get]
func (h *ActivityHandler) Recent(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListRecent(c.Request.Context()))
}
