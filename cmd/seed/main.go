// Command seed loads a YAML seed file into the MongoDB catalog.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"perfumery/internal/config"
	"perfumery/internal/database"
	"perfumery/internal/seed"
)

func main() {
	config.Load()

	path := flag.String("file", config.AppEnv.SeedFile, "path to the YAML seed file")
	flag.Parse()

	if *path == "" {
		log.Fatal("seed file is required (-file or SEED_FILE)")
	}
	if config.AppEnv.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}

	file, err := seed.Load(*path)
	if err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(config.AppEnv.DBName)
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("ensuring indexes: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := seed.Apply(ctx, database.NewMongoStore(db), file)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("seed complete: %d admins, %d categories, %d types, %d products",
		report.Admins, report.Categories, report.Types, report.Products)
}
