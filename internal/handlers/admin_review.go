package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"perfumery/internal/moderation"
)

/*
GET /admin/api/reviews?status=pending|approved|rejected|all
- default: pending queue
*/
func GetAllReviewsAdmin(reviews *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/reviews"
		defer handlePanic(c, route)

		list, err := reviews.AdminReviews(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d reviews", route, len(list))
		c.JSON(http.StatusOK, gin.H{
			"data":    list,
			"message": "Reviews fetched successfully.",
		})
	}
}

func ApproveReview(reviews *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/reviews/:reviewId/approve"
		defer handlePanic(c, route)

		reviewID, ok := parseObjectID(c, route, "reviewId")
		if !ok {
			return
		}

		review, err := reviews.Approve(c.Request.Context(), reviewID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": review, "message": "Review approved."})
	}
}

func RejectReview(reviews *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/reviews/:reviewId/reject"
		defer handlePanic(c, route)

		reviewID, ok := parseObjectID(c, route, "reviewId")
		if !ok {
			return
		}

		review, err := reviews.Reject(c.Request.Context(), reviewID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": review, "message": "Review rejected."})
	}
}

func DeleteReview(reviews *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/reviews/:reviewId"
		defer handlePanic(c, route)

		reviewID, ok := parseObjectID(c, route, "reviewId")
		if !ok {
			return
		}

		if err := reviews.Delete(c.Request.Context(), reviewID); err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Review deleted."})
	}
}
