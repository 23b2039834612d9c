package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/eduviagens/booking-api/internal/config"
	"github.com/eduviagens/booking-api/internal/database"
	"github.com/eduviagens/booking-api/internal/handler"
	"github.com/eduviagens/booking-api/internal/middleware"
	"github.com/eduviagens/booking-api/internal/queue"
	"github.com/eduviagens/booking-api/internal/repository"
	"github.com/eduviagens/booking-api/internal/router"
	queue_publisher "github.com/eduviagens/booking-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	quickTokens := repository.NewQuickTokenRepo(db)
	memberships := repository.NewMembershipRepo(db)
	communities := repository.NewCommunityRepo(db)
	reservations := repository.NewReservationRepo(db)
	orders := repository.NewOrderRepo(db)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users, quickTokens),
		Me:          handler.NewMeHandler(cfg, users, memberships),
		Community:   handler.NewCommunityHandler(communities, memberships),
		Reservation: handler.NewReservationHandler(reservations),
		Order:       handler.NewOrderHandler(orders, queue_publisher.PublishOrderPaid),
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())

	// Redis-backed rate limiting and catalog caching; both degrade to
	// no-ops when Redis is unavailable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.Register(e, h, cfg.JWTSecret, cache)

	// Background consumer mirrors paid orders into logs/orders.log.
	go queue.StartOrderConsumer()

	// Expired quick tokens are rejected on lookup; the sweep just keeps
	// the table from growing without bound.
	go func() {
		for {
			time.Sleep(time.Hour)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := quickTokens.DeleteExpired(ctx, time.Now().UTC()); err != nil {
				log.Printf("quick token sweep: %v", err)
			} else if n > 0 {
				log.Printf("quick token sweep: removed %d expired tokens", n)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
