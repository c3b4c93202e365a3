package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Campus_Portal/internal/config"
	"Campus_Portal/internal/handler"
	"Campus_Portal/internal/middleware"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository/mysql"
	"Campus_Portal/internal/repository/redis"
	"Campus_Portal/internal/router"
	"Campus_Portal/internal/service"

	"github.com/gin-gonic/gin"
)

// @title           Campus Portal API
// @version         1.0
// @description     Clubs, membership workflow, news and activity feed of the campus portal.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := pkg.NewLogger(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	db, err := mysql.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect database failed")
	}
	// 自动建表
	if err := mysql.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("auto migrate failed")
	}
	store := mysql.NewStore(db)

	// 连接redis
	rdb, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Fatal("connect redis failed")
	}
	sessions := redis.NewSessionRepository(rdb)

	jwtm := pkg.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	var notifier service.Notifier = service.NopNotifier{}
	var mailer *service.MailNotifier
	smtpCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	if smtpCfg.Enabled() {
		mailer = service.NewMailNotifier(smtpCfg, logger)
		notifier = mailer
	}

	activitySvc := service.NewActivityService(redis.NewActivityRepository(rdb, cfg.ActivityTTL), store.Users(), logger)
	userSvc := service.NewUserService(store, sessions, jwtm, logger)
	clubSvc := service.NewClubService(store, redis.NewClubCache(rdb), activitySvc, notifier, logger)
	newsSvc := service.NewNewsService(store, activitySvc)
	favoriteSvc := service.NewFavoriteService(store)

	if err := userSvc.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.WithError(err).Fatal("seed admin failed")
	}

	// outbox 投递：配置了 broker 时写 kafka，否则只记日志
	sender := service.LogSender(logger)
	var producer *pkg.KafkaProducer
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err = pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: brokers, Topic: cfg.KafkaTopic})
		if err != nil {
			logger.WithError(err).Fatal("create kafka producer failed")
		}
		sender = service.KafkaSender(producer)
	}
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		service.NewOutboxRelayer(store.Outbox(), sender, logger).Run(relayCtx)
	}()

	r := router.InitRouter(router.Options{
		Logger:     logger,
		JWT:        jwtm,
		Sessions:   sessions,
		CSRF:       middleware.NewCSRF(cfg.CSRFSecret, cfg.CSRFSecureCookie),
		CORSOrigin: cfg.CORSOrigin,
		User:       handler.NewUserHandler(userSvc, favoriteSvc),
		Club:       handler.NewClubHandler(clubSvc),
		News:       handler.NewNewsHandler(newsSvc),
		Activity:   handler.NewActivityHandler(activitySvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("http server shutdown failed")
	}

	stopRelay()
	<-relayDone
	if err := producer.Close(); err != nil {
		logger.WithError(err).Error("close kafka producer failed")
	}
	if mailer != nil {
		mailer.Wait()
	}
	if err := rdb.Close(); err != nil {
		logger.WithError(err).Error("close redis failed")
	}
	if err := mysql.Close(db); err != nil {
		logger.WithError(err).Error("close database failed")
	}
	logger.Info("bye")
}
