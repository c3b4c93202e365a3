package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"Campus_Portal/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
	csrfMaxAge     = 60 * 60 * 24
)

// CSRF 双重提交：cookie 中保存签名后的 token，请求头携带原始 token
type CSRF struct {
	secret []byte
	secure bool
}

func NewCSRF(secret string, secure bool) *CSRF {
	return &CSRF{secret: []byte(secret), secure: secure}
}

func (x *CSRF) sign(token string) string {
	mac := hmac.New(sha256.New, x.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// IssueToken godoc
// @Summary  Issue a CSRF token
// @Tags     auth
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /csrf-token [get]
func (x *CSRF) IssueToken(c *gin.Context) {
	token, err := pkg.RandToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "msg": "generate csrf token failed"})
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CSRFCookieName, token+"."+x.sign(token), csrfMaxAge, "/", "", x.secure, true)
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}

// Middleware 只校验会修改状态的请求
func (x *CSRF) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if !x.valid(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "csrf_invalid", "msg": "invalid csrf token"})
			return
		}
		c.Next()
	}
}

func (x *CSRF) valid(c *gin.Context) bool {
	header := c.GetHeader(CSRFHeaderName)
	cookie, err := c.Cookie(CSRFCookieName)
	if header == "" || err != nil {
		return false
	}
	token, sig, ok := strings.Cut(cookie, ".")
	if !ok || token == "" {
		return false
	}
	if !hmac.Equal([]byte(sig), []byte(x.sign(token))) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(token)) == 1
}
