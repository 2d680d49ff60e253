package main // Entry point package

import (
	"context" // bounded startup operations
	"log"     // logging library

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/pressly/goose/v3" // database migrations

	"github.com/angelina617/salon/internal/booking"
	"github.com/angelina617/salon/internal/config"
	"github.com/angelina617/salon/internal/database"
	"github.com/angelina617/salon/internal/handler"
	"github.com/angelina617/salon/internal/middleware"
	"github.com/angelina617/salon/internal/queue"
	"github.com/angelina617/salon/internal/repository"
	"github.com/angelina617/salon/internal/router"
	"github.com/angelina617/salon/migrations"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Apply pending migrations before serving traffic.
	provider, err := goose.NewProvider(goose.DialectMySQL, db, migrations.FS)
	if err != nil {
		log.Fatalf("migrations: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Repositories and the booking ledger on top of them.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	services := repository.NewServiceRepo(db)
	masters := repository.NewMasterRepo(db)
	appts := repository.NewAppointmentRepo(db)
	ledger := booking.NewLedger(appts, repository.NewCatalog(masters, services))

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(cfg, users, appts, ledger)
	masterH := handler.NewMasterHandler(masters, services, users, appts, ledger)
	publicH := &handler.PublicHandler{
		Services:     services,
		Masters:      masters,
		Appointments: appts,
		Users:        users,
		Ledger:       ledger,
	}

	e := echo.New()

	// Redis-backed rate limiting and response caching.  A nil client
	// (Redis down or unconfigured) disables both middlewares.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, bookingH)
	router.RegisterClient(e, bookingH, cfg.JWTSecret)
	router.RegisterMaster(e, masterH, cfg.JWTSecret)

	// Background consumer that logs confirmed appointments; runs its own
	// reconnect loop for the life of the process.
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
