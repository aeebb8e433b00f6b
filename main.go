package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"perfumery/internal/auth"
	"perfumery/internal/config"
	"perfumery/internal/database"
	"perfumery/internal/handlers"
	"perfumery/internal/middleware"
	"perfumery/internal/moderation"
	"perfumery/internal/seed"
	"perfumery/internal/store"
)

// backend is everything main needs from a store implementation.
type backend interface {
	store.Catalog
	store.Reviews
	store.Admins
	seed.Target
}

func openStore(cfg config.Config) backend {
	if cfg.StoreDriver == config.StoreMemory {
		log.Println("using in-memory store")
		mem := store.NewMemory()
		if cfg.SeedFile != "" {
			file, err := seed.Load(cfg.SeedFile)
			if err != nil {
				log.Fatal(err)
			}
			report, err := seed.Apply(context.Background(), mem, file)
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("seeded %+v", report)
		}
		return mem
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("ensuring indexes: %v", err)
	}
	return database.NewMongoStore(db)
}

func main() {
	config.Load()
	cfg := config.AppEnv

	if problems := cfg.Validate(); len(problems) > 0 {
		log.Fatalf("invalid configuration: %v", problems)
	}

	st := openStore(cfg)

	authService := auth.NewService(st, auth.LogDispatcher{}, auth.Options{
		Secret:     cfg.JWTSecret,
		CodeTTL:    cfg.OTPTTL,
		SessionTTL: cfg.SessionTTL,
	})

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	handlers.Register(r, handlers.Deps{
		Catalog:    st,
		Moderation: moderation.NewService(st, st),
		Auth:       authService,
		Cookies:    handlers.CookieOptions{Secure: cfg.Production},
	})

	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
