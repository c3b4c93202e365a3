package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"
	redisrepo "Campus_Portal/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessions(t *testing.T) *redisrepo.SessionRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redisrepo.NewSessionRepository(rdb)
}

func newAuthEngine(jwtm *pkg.JWTManager, sessions repository.SessionRepository) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtm, sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint64(ContextUserIDKey), "role": c.GetString(ContextRoleKey)})
	})
	r.GET("/admin", AuthMiddleware(jwtm, sessions), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtm := pkg.NewJWTManager("a", "r")
	sessions := newSessions(t)
	r := newAuthEngine(jwtm, sessions)
	ctx := context.Background()

	pair, err := jwtm.GeneratePair(7, "user")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "garbage").Code)
	// 未登录的 token
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", pair.AccessToken).Code)

	require.NoError(t, sessions.Save(ctx, 7, repository.Session{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, pkg.RefreshTTL))
	w := doGet(r, "/me", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"user"}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", pair.AccessToken).Code)

	// 在别处重新登录后旧 token 失效
	next, err := jwtm.GeneratePair(7, "user")
	require.NoError(t, err)
	require.NoError(t, sessions.Save(ctx, 7, repository.Session{AccessToken: next.AccessToken, RefreshToken: next.RefreshToken}, pkg.RefreshTTL))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", pair.AccessToken).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/me", next.AccessToken).Code)
}

func TestAdminOnly(t *testing.T) {
	jwtm := pkg.NewJWTManager("a", "r")
	sessions := newSessions(t)
	r := newAuthEngine(jwtm, sessions)

	pair, err := jwtm.GeneratePair(1, "admin")
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), 1, repository.Session{AccessToken: pair.AccessToken}, pkg.RefreshTTL))

	assert.Equal(t, http.StatusNoContent, doGet(r, "/admin", pair.AccessToken).Code)
}

func TestCSRF(t *testing.T) {
	csrf := NewCSRF("secret", false)
	r := gin.New()
	r.GET("/csrf-token", csrf.IssueToken)
	r.Use(csrf.Middleware())
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CSRFCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	token, _, ok := strings.Cut(cookie.Value, ".")
	require.True(t, ok)
	assert.Contains(t, w.Body.String(), token)

	post := func(header string, c *http.Cookie) int {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		if header != "" {
			req.Header.Set(CSRFHeaderName, header)
		}
		if c != nil {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/read", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusOK, post(token, cookie))
	assert.Equal(t, http.StatusForbidden, post("", cookie))
	assert.Equal(t, http.StatusForbidden, post(token, nil))
	assert.Equal(t, http.StatusForbidden, post("other", cookie))

	// cookie 中的 token 被篡改，签名不匹配
	forged := &http.Cookie{Name: CSRFCookieName, Value: "forged." + strings.Repeat("0", 64)}
	assert.Equal(t, http.StatusForbidden, post("forged", forged))

	// 其他密钥签发的 cookie 无效
	other := NewCSRF("other", false)
	sig := other.sign("abc")
	assert.Equal(t, http.StatusForbidden, post("abc", &http.Cookie{Name: CSRFCookieName, Value: "abc." + sig}))
}
