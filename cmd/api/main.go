package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/agenda-pro/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-pro/internal/db"
	infraRepo "github.com/BruksfildServices01/agenda-pro/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-pro/internal/middleware"
	"github.com/BruksfildServices01/agenda-pro/internal/notifier"
	"github.com/BruksfildServices01/agenda-pro/internal/reminder"
	"github.com/BruksfildServices01/agenda-pro/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	// redis é opcional: sem REDIS_ADDR o cache vira no-op
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// varredura de lembretes em background
	scheduler := reminder.NewScheduler(
		infraRepo.NewAppointmentGormRepository(db),
		notifier.NewEmailSender(cfg),
	).
		WithInterval(cfg.ReminderInterval).
		WithWindow(cfg.ReminderWindow)

	go scheduler.Run(ctx)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, redisClient, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
