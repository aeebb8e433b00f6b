package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"perfumery/internal/moderation"
)

type ReviewSubmitRequest struct {
	ReviewerName string `json:"reviewerName"`
	Rating       *int   `json:"rating"`
	Comment      string `json:"comment"`
}

/*
POST /products/:productId/reviews
- new reviews wait in the pending queue
*/
func SubmitReview(reviews *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:productId/reviews"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId")
		if !ok {
			return
		}

		var req ReviewSubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		_, err := reviews.Submit(c.Request.Context(), productID, moderation.SubmitInput{
			ReviewerName: req.ReviewerName,
			Rating:       req.Rating,
			Comment:      req.Comment,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Thank you! Your review has been submitted and will be visible after approval by our team.",
		})
	}
}

/*
GET /products/:productId/reviews
- approved only, newest first
*/
func GetApprovedReviews(reviews *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:productId/reviews"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId")
		if !ok {
			return
		}

		list, err := reviews.PublicReviews(c.Request.Context(), productID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d reviews", route, len(list))
		c.JSON(http.StatusOK, list)
	}
}
