package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxRating = 5

type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Picture     StringList          `bson:"picture" json:"picture"`
	Price       float64             `bson:"price" json:"price"`
	Stock       int                 `bson:"stock" json:"stock"`
	Featured    bool                `bson:"featured" json:"featured"`
	Rating      float64             `bson:"rating" json:"rating"`
	CategoryID  *primitive.ObjectID `bson:"category,omitempty" json:"-"`
	TypeID      *primitive.ObjectID `bson:"Type,omitempty" json:"-"`
	Category    *Category           `bson:"-" json:"category,omitempty"`
	Type        *Type               `bson:"-" json:"Type,omitempty"`
	Notes       NoteList            `bson:"notes" json:"notes"`
	InStock     bool                `bson:"-" json:"inStock"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// ProductSummary is the lean projection used for listings.
type ProductSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Picture  StringList         `json:"picture"`
	Price    float64            `json:"price"`
	Category *Category          `json:"category,omitempty"`
	Rating   float64            `json:"rating"`
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Title:    p.Title,
		Picture:  p.Picture,
		Price:    p.Price,
		Category: p.Category,
		Rating:   p.Rating,
	}
}

// CategoryName returns the populated category name or "".
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// TypeName returns the populated type name or "".
func (p Product) TypeName() string {
	if p.Type == nil {
		return ""
	}
	return p.Type.Name
}

func (p Product) Validate() error {
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return fmt.Errorf("rating must be between 0 and %d", MaxRating)
	}
	return nil
}
