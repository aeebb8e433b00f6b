package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    primitive.ObjectID `bson:"product" json:"productId"`
	Product      *ReviewProduct     `bson:"-" json:"product,omitempty"`
	ReviewerName string             `bson:"reviewerName" json:"reviewerName"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	Status       ReviewStatus       `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReviewProduct is the product projection attached to reviews in the
// moderation queue.
type ReviewProduct struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Picture StringList         `json:"picture"`
}
