package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfumery/internal/models"
	"perfumery/internal/store"
)

func (s *MongoStore) InsertReview(ctx context.Context, r models.Review) (models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col(collectionReviews).InsertOne(ctx, r)
	if err != nil {
		return models.Review{}, translate("insert review", err)
	}
	r.ID = result.InsertedID.(primitive.ObjectID)
	return r, nil
}

func (s *MongoStore) FindReviews(ctx context.Context, filter store.ReviewFilter) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.ProductID != nil {
		query["product"] = *filter.ProductID
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.col(collectionReviews).Find(ctx, query, opts)
	if err != nil {
		return nil, translate("find reviews", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, translate("decode reviews", err)
	}

	if err := s.attachReviewProducts(ctx, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

type reviewProductDoc struct {
	ID      primitive.ObjectID `bson:"_id"`
	Title   string             `bson:"title"`
	Picture models.StringList  `bson:"picture"`
}

func (s *MongoStore) attachReviewProducts(ctx context.Context, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]struct{}, len(reviews))
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.ProductID]; ok {
			continue
		}
		seen[r.ProductID] = struct{}{}
		ids = append(ids, r.ProductID)
	}

	cursor, err := s.col(collectionProducts).Find(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"title": 1, "picture": 1}),
	)
	if err != nil {
		return translate("find review products", err)
	}
	defer cursor.Close(ctx)

	var docs []reviewProductDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return translate("decode review products", err)
	}

	byID := make(map[primitive.ObjectID]reviewProductDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	for i := range reviews {
		if d, ok := byID[reviews[i].ProductID]; ok {
			reviews[i].Product = &models.ReviewProduct{ID: d.ID, Title: d.Title, Picture: d.Picture}
		}
	}
	return nil
}

func (s *MongoStore) UpdateReviewStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus) (models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.Review
	err := s.col(collectionReviews).
		FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": status}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&updated)
	if err != nil {
		return models.Review{}, translate("update review status", err)
	}

	out := []models.Review{updated}
	if err := s.attachReviewProducts(ctx, out); err != nil {
		return models.Review{}, err
	}
	return out[0], nil
}

func (s *MongoStore) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col(collectionReviews).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete review", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
