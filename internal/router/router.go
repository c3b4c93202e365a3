package router

import (
	"net/http"
	"strings"
	"time"

	_ "Campus_Portal/docs"
	"Campus_Portal/internal/handler"
	"Campus_Portal/internal/middleware"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Options struct {
	Logger     *logrus.Logger
	JWT        *pkg.JWTManager
	Sessions   repository.SessionRepository
	CSRF       *middleware.CSRF
	CORSOrigin string

	User     *handler.UserHandler
	Club     *handler.ClubHandler
	News     *handler.NewsHandler
	Activity *handler.ActivityHandler
}

func InitRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger), middleware.Metrics())
	r.Use(cors.New(corsConfig(opts.CORSOrigin)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.AuthMiddleware(opts.JWT, opts.Sessions)
	csrf := opts.CSRF.Middleware()
	admin := middleware.AdminOnly()

	api := r.Group("/api")
	api.GET("/csrf-token", opts.CSRF.IssueToken)

	// 登录相关接口
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", opts.User.Register)
		authGroup.POST("/login", opts.User.Login)
		authGroup.POST("/refresh", opts.User.TokenRefresh)
		authGroup.POST("/logout", auth, csrf, opts.User.Logout)
		authGroup.GET("/me", auth, opts.User.Me)
	}

	// 当前用户
	meGroup := api.Group("/users/me", auth, csrf)
	{
		meGroup.GET("/profile", opts.User.Profile)
		meGroup.GET("/favorites", opts.User.ListFavorites)
		meGroup.POST("/favorites/:newsId", opts.User.AddFavorite)
		meGroup.DELETE("/favorites/:newsId", opts.User.RemoveFavorite)
	}

	// 社团相关接口
	clubGroup := api.Group("/clubs")
	{
		clubGroup.GET("", opts.Club.List)
		clubGroup.GET("/:id", opts.Club.Get)

		clubGroup.POST("", auth, csrf, admin, opts.Club.Create)
		clubGroup.DELETE("/:id", auth, csrf, admin, opts.Club.Delete)

		managed := clubGroup.Group("", auth, csrf)
		managed.PUT("/:id", opts.Club.Update)
		managed.POST("/:id/request", opts.Club.RequestJoin)
		managed.GET("/:id/requests", opts.Club.ListRequests)
		managed.POST("/:id/approve/:userId", opts.Club.Approve)
		managed.POST("/:id/reject/:userId", opts.Club.Reject)
		managed.DELETE("/:id/members/:userId", opts.Club.RemoveMember)
		managed.POST("/:id/events", opts.Club.AddEvent)
		managed.DELETE("/:id/events/:eventId", opts.Club.RemoveEvent)
	}

	// 新闻相关接口
	newsGroup := api.Group("/news")
	{
		newsGroup.GET("", opts.News.List)
		newsGroup.GET("/:slug", opts.News.Get)

		adminNews := newsGroup.Group("", auth, csrf, admin)
		adminNews.POST("", opts.News.Create)
		adminNews.PUT("/:slug", opts.News.Update)
		adminNews.DELETE("/:slug", opts.News.Delete)
	}

	api.GET("/activities/recent", auth, admin, opts.Activity.Recent)

	return r
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := make([]string, 0)
	for _, o := range strings.Split(origin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	cfg.AllowOrigins = origins
	return cfg
}
