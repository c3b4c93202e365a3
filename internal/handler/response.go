package handler

import (
	"net/http"
	"strconv"

	"Campus_Portal/internal/middleware"
	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorResp 统一错误响应
type ErrorResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

var kindStatus = map[pkg.ErrKind]int{
	pkg.KindNotFound:     http.StatusNotFound,
	pkg.KindForbidden:    http.StatusForbidden,
	pkg.KindConflict:     http.StatusConflict,
	pkg.KindInvalidInput: http.StatusBadRequest,
	pkg.KindUnauthorized: http.StatusUnauthorized,
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	if e, ok := pkg.AsError(err); ok {
		status, found := kindStatus[e.Kind]
		if !found {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResp{Code: e.Code, Msg: e.Msg})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResp{Code: "internal", Msg: "internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResp{Code: pkg.ErrInvalidInput.Code, Msg: msg})
}

func respondOK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// actorFromCtx 由 AuthMiddleware 写入的身份构造 Actor
func actorFromCtx(c *gin.Context) (service.Actor, bool) {
	userID := c.GetUint64(middleware.ContextUserIDKey)
	if userID == 0 {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: model.Role(c.GetString(middleware.ContextRoleKey))}, true
}

func mustActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := actorFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResp{Code: "unauthorized", Msg: "unauthorized"})
	}
	return actor, ok
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
