package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfumery/internal/apperr"
	"perfumery/internal/models"
	"perfumery/internal/store"
)

const (
	collectionProducts   = "products"
	collectionCategories = "categories"
	collectionTypes      = "types"
	collectionReviews    = "reviews"
	collectionAdmins     = "admins"
)

const queryTimeout = 5 * time.Second

// MongoStore implements store.Catalog, store.Reviews and store.Admins on
// top of a MongoDB database.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return apperr.Wrap(op, err)
	}
}

func (s *MongoStore) FindAllProducts(ctx context.Context, filter store.ProductFilter, populate bool) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	if filter.CategoryID != nil {
		query["category"] = *filter.CategoryID
	}

	cursor, err := s.col(collectionProducts).Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate("find products", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, translate("decode products", err)
	}

	if err := s.populate(ctx, products, populate); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) populate(ctx context.Context, products []models.Product, populate bool) error {
	if !populate || len(products) == 0 {
		store.Populate(products, nil, nil)
		return nil
	}

	categories, err := s.FindAllCategories(ctx)
	if err != nil {
		return err
	}
	types, err := s.FindAllTypes(ctx)
	if err != nil {
		return err
	}
	store.Populate(products, categories, types)
	return nil
}

func (s *MongoStore) FindProductByID(ctx context.Context, id primitive.ObjectID, populate bool) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var raw bson.M
	if err := s.col(collectionProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
		return models.Product{}, translate("find product", err)
	}

	p, err := normalizeProductDocument(raw)
	if err != nil {
		return models.Product{}, translate("decode product", err)
	}

	out := []models.Product{p}
	if err := s.populate(ctx, out, populate); err != nil {
		return models.Product{}, err
	}
	return out[0], nil
}

func (s *MongoStore) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	result, err := s.col(collectionProducts).InsertOne(ctx, p)
	if err != nil {
		return models.Product{}, translate("insert product", err)
	}
	p.ID = result.InsertedID.(primitive.ObjectID)

	out := []models.Product{p}
	if err := s.populate(ctx, out, true); err != nil {
		return models.Product{}, err
	}
	return out[0], nil
}

func productUpdateDocument(update store.ProductUpdate) bson.M {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Picture != nil {
		set["picture"] = *update.Picture
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.Featured != nil {
		set["featured"] = *update.Featured
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.CategoryID != nil {
		set["category"] = *update.CategoryID
	}
	if update.TypeID != nil {
		set["Type"] = *update.TypeID
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}
	return set
}

func (s *MongoStore) UpdateProduct(ctx context.Context, id primitive.ObjectID, update store.ProductUpdate) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var raw bson.M
	err := s.col(collectionProducts).
		FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": productUpdateDocument(update)},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&raw)
	if err != nil {
		return models.Product{}, translate("update product", err)
	}

	p, err := normalizeProductDocument(raw)
	if err != nil {
		return models.Product{}, translate("decode product", err)
	}

	out := []models.Product{p}
	if err := s.populate(ctx, out, true); err != nil {
		return models.Product{}, err
	}
	return out[0], nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col(collectionProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete product", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindAllCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.col(collectionCategories).Find(ctx, bson.M{})
	if err != nil {
		return nil, translate("find categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, translate("decode categories", err)
	}
	return categories, nil
}

func (s *MongoStore) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	result, err := s.col(collectionCategories).InsertOne(ctx, c)
	if err != nil {
		return models.Category{}, translate("insert category", err)
	}
	c.ID = result.InsertedID.(primitive.ObjectID)
	return c, nil
}

func (s *MongoStore) FindAllTypes(ctx context.Context) ([]models.Type, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.col(collectionTypes).Find(ctx, bson.M{})
	if err != nil {
		return nil, translate("find types", err)
	}
	defer cursor.Close(ctx)

	types := make([]models.Type, 0)
	if err := cursor.All(ctx, &types); err != nil {
		return nil, translate("decode types", err)
	}
	return types, nil
}

func (s *MongoStore) InsertType(ctx context.Context, t models.Type) (models.Type, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	result, err := s.col(collectionTypes).InsertOne(ctx, t)
	if err != nil {
		return models.Type{}, translate("insert type", err)
	}
	t.ID = result.InsertedID.(primitive.ObjectID)
	return t, nil
}

var (
	_ store.Catalog = (*MongoStore)(nil)
	_ store.Reviews = (*MongoStore)(nil)
	_ store.Admins  = (*MongoStore)(nil)
)
