package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Username  string             `bson:"username,omitempty" json:"username,omitempty"`
	OTP       *OneTimeCode       `bson:"otp,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// OneTimeCode is the single outstanding login code of an admin. Only the
// bcrypt hash is persisted. Issuing a new code replaces the previous one.
type OneTimeCode struct {
	Hash      string    `bson:"hash"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

func (o *OneTimeCode) Expired(now time.Time) bool {
	return o == nil || !now.Before(o.ExpiresAt)
}
