package main

import (
	stdlog "log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/multipark/backoffice/internal/config"
	"github.com/multipark/backoffice/internal/database"
	"github.com/multipark/backoffice/internal/handler"
	"github.com/multipark/backoffice/internal/middleware"
	"github.com/multipark/backoffice/internal/queue"
	"github.com/multipark/backoffice/internal/reconcile"
	"github.com/multipark/backoffice/internal/repository"
	"github.com/multipark/backoffice/internal/router"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		stdlog.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("[Startup] redis unavailable, cache/rate limit/park sync disabled")
	}

	reservationRepo := repository.NewReservationRepo(db)
	cashRepo := repository.NewCashRepo(db)
	parkRepo := repository.NewParkRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	engine := reconcile.NewEngine(reservationRepo, cashRepo)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Upload:       handler.NewUploadHandler(engine, parkRepo),
		Reservations: handler.NewReservationHandler(reservationRepo, engine),
		Parks:        handler.NewParkHandler(parkRepo, rdb),
		Health:       handler.NewHealthHandler(db, rdb),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e, h)
	router.RegisterProtected(e, h, cfg.JWTSecret)

	go func() {
		if err := queue.StartUploadConsumer(); err != nil {
			log.Warnf("[Queue] upload consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Infof("[Startup] listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		stdlog.Fatal(err)
	}
}
