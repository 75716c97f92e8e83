package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mirai2k/booking-app/internal/cache"
	"github.com/mirai2k/booking-app/internal/config"
	"github.com/mirai2k/booking-app/internal/database"
	"github.com/mirai2k/booking-app/internal/handler"
	"github.com/mirai2k/booking-app/internal/mailer"
	"github.com/mirai2k/booking-app/internal/middleware"
	"github.com/mirai2k/booking-app/internal/queue"
	"github.com/mirai2k/booking-app/internal/repository"
	"github.com/mirai2k/booking-app/internal/router"
	"github.com/mirai2k/booking-app/internal/service"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Env == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Params{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, availability cache and rate limiting disabled")
	}

	amqpConn := queue.NewConnection(cfg.AMQPURL)
	defer amqpConn.Close()

	roomRepo := repository.NewRoomRepo(db)
	userRepo := repository.NewUserRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	availabilityCache := cache.NewAvailability(rdb, cfg.CachePrefix, cfg.CacheTTL)
	producer := queue.NewProducer(amqpConn, cfg.QueueName)

	var m mailer.Mailer
	if cfg.SMTPHost == "" {
		logrus.Info("SMTP not configured, confirmation mail is logged only")
		m = &mailer.LogMailer{Delay: 2 * time.Second}
	} else {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	consumer := queue.NewConsumer(amqpConn, cfg.QueueName, m, cfg.MailMaxAttempts, cfg.MailTimeout)
	go consumer.Start(ctx)

	availabilitySvc := service.NewAvailability(roomRepo, availabilityCache)
	bookingSvc := service.NewBooking(bookingRepo, availabilityCache, producer)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e,
		handler.NewRoomHandler(roomRepo),
		handler.NewUserHandler(userRepo),
		handler.NewBookingHandler(bookingRepo, bookingSvc),
		handler.NewAvailabilityHandler(availabilitySvc),
	)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server: %v", err)
		}
	}()
	logrus.Infof("listening on :%s", cfg.Port)

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
}
