package moderation

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/apperr"
	"perfumery/internal/models"
	"perfumery/internal/store"
)

// StatusAll disables the status filter of the operator listing.
const StatusAll = "all"

// SubmitInput is the visitor-supplied part of a review. Rating is nil when
// absent.
type SubmitInput struct {
	ReviewerName string
	Rating       *int
	Comment      string
}

type Service struct {
	reviews store.Reviews
	catalog store.Catalog
	now     func() time.Time
}

func NewService(reviews store.Reviews, catalog store.Catalog) *Service {
	return &Service{reviews: reviews, catalog: catalog, now: time.Now}
}

// WithClock overrides the time source used for createdAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func validateSubmission(in SubmitInput) (name, comment string, rating int, err error) {
	name = strings.TrimSpace(in.ReviewerName)
	comment = strings.TrimSpace(in.Comment)
	if name == "" || comment == "" || in.Rating == nil {
		return "", "", 0, apperr.Validation("Name, rating, and comment are required.")
	}
	rating = *in.Rating
	if rating < models.MinReviewRating || rating > models.MaxReviewRating {
		return "", "", 0, apperr.Validation("Rating must be between 1 and 5.")
	}
	return name, comment, rating, nil
}

// Submit validates the input and stores a new pending review for productID.
func (s *Service) Submit(ctx context.Context, productID primitive.ObjectID, in SubmitInput) (models.Review, error) {
	name, comment, rating, err := validateSubmission(in)
	if err != nil {
		return models.Review{}, err
	}

	if _, err := s.catalog.FindProductByID(ctx, productID, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Review{}, apperr.NotFound("Product not found.")
		}
		return models.Review{}, apperr.Store("submit review: find product", err)
	}

	status, err := Transition("", EventSubmit)
	if err != nil {
		return models.Review{}, err
	}

	review, err := s.reviews.InsertReview(ctx, models.Review{
		ProductID:    productID,
		ReviewerName: name,
		Rating:       rating,
		Comment:      comment,
		Status:       status,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return models.Review{}, apperr.Store("submit review: insert", err)
	}

	log.Printf("[MODERATION] review %s submitted for product %s", review.ID.Hex(), productID.Hex())
	return review, nil
}

// PublicReviews returns the approved reviews of a product, newest first.
func (s *Service) PublicReviews(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	approved := models.ReviewApproved
	reviews, err := s.reviews.FindReviews(ctx, store.ReviewFilter{ProductID: &productID, Status: &approved})
	if err != nil {
		return nil, apperr.Store("public reviews", err)
	}
	for i := range reviews {
		reviews[i].Product = nil
	}
	return reviews, nil
}

// ParseStatusFilter turns the operator listing's status parameter into a
// filter. Empty means the pending queue and "all" means no filter.
func ParseStatusFilter(raw string) (*models.ReviewStatus, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		pending := models.ReviewPending
		return &pending, nil
	case StatusAll:
		return nil, nil
	}

	status := models.ReviewStatus(value)
	if !status.Valid() {
		return nil, apperr.Validation("status must be one of pending, approved, rejected, all")
	}
	return &status, nil
}

// AdminReviews lists reviews for operators, newest first.
func (s *Service) AdminReviews(ctx context.Context, rawStatus string) ([]models.Review, error) {
	status, err := ParseStatusFilter(rawStatus)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.FindReviews(ctx, store.ReviewFilter{Status: status})
	if err != nil {
		return nil, apperr.Store("admin reviews", err)
	}
	return reviews, nil
}

func (s *Service) Approve(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	return s.apply(ctx, id, EventApprove)
}

func (s *Service) Reject(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	return s.apply(ctx, id, EventReject)
}

// apply writes the target state of e without reading the review first.
// Operator events reach the same state from any current state.
func (s *Service) apply(ctx context.Context, id primitive.ObjectID, e Event) (models.Review, error) {
	to, err := operatorTransition(models.ReviewPending, e)
	if err != nil {
		return models.Review{}, apperr.Wrap("moderate review", err)
	}

	review, err := s.reviews.UpdateReviewStatus(ctx, id, to)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Review{}, apperr.NotFound("Review not found.")
		}
		return models.Review{}, apperr.Store(string(e)+" review", err)
	}

	log.Printf("[MODERATION] review %s -> %s", id.Hex(), review.Status)
	return review, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := operatorTransition(models.ReviewPending, EventDelete); err != nil {
		return apperr.Wrap("delete review", err)
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Review not found.")
		}
		return apperr.Store("delete review", err)
	}

	log.Printf("[MODERATION] review %s deleted", id.Hex())
	return nil
}
