package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ensureUniqueName(db *mongo.Database, collection, indexName, field string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(collection).Indexes()

	model := mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
		Options: options.Index().
			SetName(indexName).
			SetUnique(true),
	}

	log.Printf("ensureIndexes: creating %s index on %s", indexName, collection)
	if _, err := indexes.CreateOne(ctx, model); err != nil {
		log.Printf("ensureIndexes: %s index error: %v", indexName, err)
		return err
	}
	log.Printf("ensureIndexes: %s index created", indexName)
	return nil
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	return ensureUniqueName(db, collectionCategories, "name_unique", "name")
}

func EnsureTypeIndexes(db *mongo.Database) error {
	return ensureUniqueName(db, collectionTypes, "name_unique", "name")
}

func EnsureAdminIndexes(db *mongo.Database) error {
	return ensureUniqueName(db, collectionAdmins, "email_unique", "email")
}

func EnsureReviewIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(collectionReviews).Indexes()

	productStatusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "product", Value: 1},
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("product_status_createdAt"),
	}

	log.Println("EnsureReviewIndexes: creating product_status_createdAt index")
	if _, err := indexes.CreateOne(ctx, productStatusIndex); err != nil {
		log.Println("EnsureReviewIndexes: product_status index error:", err)
		return err
	}
	log.Println("EnsureReviewIndexes: product_status_createdAt index created")
	return nil
}

type indexStep struct {
	name   string
	// unique steps back duplicate detection in the stores and must succeed
	unique bool
	fn     func(*mongo.Database) error
}

var indexSteps = []indexStep{
	{"category", true, EnsureCategoryIndexes},
	{"type", true, EnsureTypeIndexes},
	{"admin", true, EnsureAdminIndexes},
	{"review", false, EnsureReviewIndexes},
}

// EnsureIndexes creates every index. A failed unique index is returned as an
// error; other failures are logged.
func EnsureIndexes(db *mongo.Database) error {
	return runIndexSteps(db, indexSteps)
}

func runIndexSteps(db *mongo.Database, steps []indexStep) error {
	var failed []error
	for _, step := range steps {
		err := step.fn(db)
		if err == nil {
			continue
		}
		if step.unique {
			failed = append(failed, fmt.Errorf("%s unique index: %w", step.name, err))
			continue
		}
		log.Printf("⚠️ %s index warning: %v", step.name, err)
	}
	return errors.Join(failed...)
}
