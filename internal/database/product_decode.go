package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"perfumery/internal/models"
)

// normalizeProductDocument coerces fields that older writers stored with
// inconsistent BSON types before decoding into models.Product.
func normalizeProductDocument(raw bson.M) (models.Product, error) {
	for _, key := range []string{"category", "Type"} {
		switch typed := raw[key].(type) {
		case string:
			if id, err := primitive.ObjectIDFromHex(typed); err == nil {
				raw[key] = id
			} else {
				delete(raw, key)
			}
		case primitive.ObjectID:
			// already an ObjectID, keep as is
		default:
			delete(raw, key)
		}
	}

	if val, ok := raw["featured"]; ok {
		switch typed := val.(type) {
		case string:
			raw["featured"] = typed == "true"
		case bool:
		default:
			raw["featured"] = false
		}
	} else {
		raw["featured"] = false
	}

	raw["stock"] = toInt(raw["stock"])
	raw["price"] = toFloat(raw["price"])
	raw["rating"] = toFloat(raw["rating"])

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Product{}, err
	}

	p.InStock = p.Stock > 0

	return p, nil
}

func toInt(val interface{}) int {
	switch typed := val.(type) {
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	case int:
		return typed
	default:
		return 0
	}
}

func toFloat(val interface{}) float64 {
	switch typed := val.(type) {
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case int:
		return float64(typed)
	case float64:
		return typed
	default:
		return 0
	}
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
