package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/models"
	"perfumery/internal/store"
)

func (s *MongoStore) FindAdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var admin models.Admin
	if err := s.col(collectionAdmins).FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return models.Admin{}, translate("find admin", err)
	}
	return admin, nil
}

func (s *MongoStore) InsertAdmin(ctx context.Context, a models.Admin) (models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	result, err := s.col(collectionAdmins).InsertOne(ctx, a)
	if err != nil {
		return models.Admin{}, translate("insert admin", err)
	}
	a.ID = result.InsertedID.(primitive.ObjectID)
	return a, nil
}

func (s *MongoStore) SetOTP(ctx context.Context, email string, otp models.OneTimeCode) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col(collectionAdmins).UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"otp": otp}},
	)
	if err != nil {
		return translate("set otp", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ConsumeOTP unsets the code in the same single-document update that checks
// it, so a code verifies at most once.
func (s *MongoStore) ConsumeOTP(ctx context.Context, email string, hash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col(collectionAdmins).UpdateOne(
		ctx,
		bson.M{"email": email, "otp.hash": hash},
		bson.M{"$unset": bson.M{"otp": ""}},
	)
	if err != nil {
		return false, translate("consume otp", err)
	}
	return result.ModifiedCount == 1, nil
}
