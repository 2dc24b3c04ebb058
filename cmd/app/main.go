package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/pharmachain-portal/internal/admin"
	"github.com/wichananm65/pharmachain-portal/internal/auth"
	"github.com/wichananm65/pharmachain-portal/internal/backend"
	"github.com/wichananm65/pharmachain-portal/internal/cart"
	"github.com/wichananm65/pharmachain-portal/internal/catalog"
	"github.com/wichananm65/pharmachain-portal/internal/checkout"
	"github.com/wichananm65/pharmachain-portal/internal/config"
	"github.com/wichananm65/pharmachain-portal/internal/dashboard"
	"github.com/wichananm65/pharmachain-portal/internal/events"
	"github.com/wichananm65/pharmachain-portal/internal/order"
	"github.com/wichananm65/pharmachain-portal/internal/product"
	"github.com/wichananm65/pharmachain-portal/internal/profile"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	setLogLevel(cfg.LogLevel)

	// prices go to the browser as numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	sessions, closeStore := mustOpenStore(cfg)
	defer closeStore()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	api := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	secret := []byte(cfg.JWTSecret)

	app := fiber.New(fiber.Config{BodyLimit: 12 << 20})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	setupCORS(app, cfg.CORSOrigins)

	carts := cart.NewService(sessions)
	medicines := catalog.NewService(api)

	authHandler := auth.NewHandler(auth.NewService(api.Auth(), sessions, secret, cfg.SessionTTL))
	adminHandler := admin.NewHandler(admin.NewService(api.Admin(), sessions, secret, cfg.SessionTTL), sessions)
	catalogHandler := catalog.NewHandler(medicines, sessions)
	productHandler := product.NewHandler(product.NewService(api), sessions)
	cartHandler := cart.NewHandler(carts, medicines)
	checkoutHandler := checkout.NewHandler(checkout.NewService(carts, sessions, api, publisher), sessions)
	orderHandler := order.NewHandler(order.NewService(api), sessions)
	profileHandler := profile.NewHandler(profile.NewService(api), sessions)
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(api), sessions)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	authHandler.RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	authHandler.RegisterProtectedRoutes(app)
	adminHandler.RegisterProtectedRoutes(app)
	dashboardHandler.RegisterProtectedRoutes(app)
	dashboard.RegisterGuards(app)
	catalogHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	profileHandler.RegisterProtectedRoutes(app)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// mustOpenStore builds the session repository for cfg.StoreDriver and
// returns a func that releases its connections.
func mustOpenStore(cfg config.Config) (session.Repository, func()) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db := mustOpenDB(cfg.DatabaseURL)
		if err := session.RunMigrations(db, cfg.MigrationsDir); err != nil {
			log.Fatal(err)
		}
		log.Info("session store: postgres")
		return session.NewPostgresRepository(db), func() { db.Close() }
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		log.Info("session store: redis")
		return session.NewRedisRepository(client, cfg.SessionTTL), func() { client.Close() }
	default:
		log.Warn("session store: memory, state is lost on restart")
		return session.NewInMemoryRepository(), func() {}
	}
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	return db
}

func newPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.LogPublisher{}
	}
	log.Infof("checkout events: kafka topic %s", cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
}
