package handler

import (
	"net/http"

	"Campus_Portal/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc       *service.UserService
	favorites *service.FavoriteService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func NewUserHandler(svc *service.UserService, favorites *service.FavoriteService) *UserHandler {
	return &UserHandler{svc: svc, favorites: favorites}
}

// Register godoc
// @Summary  Register a user account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body RegisterReq true "account"
// @Success  201 {object} service.AuthResult
// @Failure  400 {object} ErrorResp
// @Failure  409 {object} ErrorResp
// @Router   /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login godoc
// @Summary  Log in with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginReq true "credentials"
// @Success  200 {object} service.AuthResult
// @Failure  401 {object} ErrorResp
// @Router   /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary  Log out
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]string
// @Router   /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), actor.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// TokenRefresh godoc
// @Summary  Exchange a refresh token for a new pair
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body RefreshReq true "refresh token"
// @Success  200 {object} service.AuthResult
// @Failure  401 {object} ErrorResp
// @Router   /auth/refresh [post]
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	res, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me godoc
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} model.User
// @Router   /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	user, err := h.svc.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Profile godoc
// @Summary  Current user with clubs and favorites
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} service.Profile
// @Router   /users/me/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	profile, err := h.svc.Profile(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListFavorites godoc
// @Summary  Favorite news of the current user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} model.News
// @Router   /users/me/favorites [get]
func (h *UserHandler) ListFavorites(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	list, err := h.favorites.List(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddFavorite godoc
// @Summary  Favorite a news item
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    newsId path int true "news id"
// @Success  200 {object} map[string]string
// @Failure  404 {object} ErrorResp
// @Failure  409 {object} ErrorResp
// @Router   /users/me/favorites/{newsId} [post]
func (h *UserHandler) AddFavorite(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	newsID, ok := parseID(c, "newsId")
	if !ok {
		return
	}
	if err := h.favorites.Add(c.Request.Context(), actor.UserID, newsID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// RemoveFavorite godoc
// @Summary  Remove a favorite
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    newsId path int true "news id"
// @Success  200 {object} map[string]string
// @Router   /users/me/favorites/{newsId} [delete]
func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	newsID, ok := parseID(c, "newsId")
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), actor.UserID, newsID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}
