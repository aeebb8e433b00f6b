// Package store declares the persistence contracts the catalog, moderation
// and auth services depend on.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type ProductFilter struct {
	Featured   *bool
	CategoryID *primitive.ObjectID
}

// ProductUpdate holds the fields to overwrite; nil fields are left as is.
type ProductUpdate struct {
	Title       *string
	Description *string
	Picture     *models.StringList
	Price       *float64
	Stock       *int
	Featured    *bool
	Rating      *float64
	CategoryID  *primitive.ObjectID
	TypeID      *primitive.ObjectID
	Notes       *models.NoteList
}

func (u ProductUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Picture == nil &&
		u.Price == nil && u.Stock == nil && u.Featured == nil && u.Rating == nil &&
		u.CategoryID == nil && u.TypeID == nil && u.Notes == nil
}

// Apply copies the set fields onto p.
func (u ProductUpdate) Apply(p *models.Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Picture != nil {
		p.Picture = *u.Picture
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.CategoryID != nil {
		id := *u.CategoryID
		p.CategoryID = &id
	}
	if u.TypeID != nil {
		id := *u.TypeID
		p.TypeID = &id
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
}

// Catalog is the product, category and type store.
type Catalog interface {
	FindAllProducts(ctx context.Context, filter ProductFilter, populate bool) ([]models.Product, error)
	FindProductByID(ctx context.Context, id primitive.ObjectID, populate bool) (models.Product, error)
	InsertProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	FindAllCategories(ctx context.Context) ([]models.Category, error)
	FindAllTypes(ctx context.Context) ([]models.Type, error)
	InsertType(ctx context.Context, t models.Type) (models.Type, error)
}

type ReviewFilter struct {
	ProductID *primitive.ObjectID
	Status    *models.ReviewStatus
}

// Reviews is the review store. FindReviews returns newest first.
type Reviews interface {
	InsertReview(ctx context.Context, r models.Review) (models.Review, error)
	FindReviews(ctx context.Context, filter ReviewFilter) ([]models.Review, error)
	UpdateReviewStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus) (models.Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
}

// Admins stores operator accounts and their outstanding login code.
type Admins interface {
	FindAdminByEmail(ctx context.Context, email string) (models.Admin, error)
	// SetOTP replaces any outstanding code for email.
	SetOTP(ctx context.Context, email string, otp models.OneTimeCode) error
	// ConsumeOTP clears the code only if its hash still equals hash, and
	// reports whether it did.
	ConsumeOTP(ctx context.Context, email string, hash string) (bool, error)
}

// Populate resolves category and type references from lookup tables.
func Populate(products []models.Product, categories []models.Category, types []models.Type) {
	categoryByID := make(map[primitive.ObjectID]models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	typeByID := make(map[primitive.ObjectID]models.Type, len(types))
	for _, t := range types {
		typeByID[t.ID] = t
	}

	for i := range products {
		finalizeProduct(&products[i])
		if id := products[i].CategoryID; id != nil {
			if c, ok := categoryByID[*id]; ok {
				products[i].Category = &c
			}
		}
		if id := products[i].TypeID; id != nil {
			if t, ok := typeByID[*id]; ok {
				products[i].Type = &t
			}
		}
	}
}

func finalizeProduct(p *models.Product) {
	p.InStock = p.Stock > 0
}
