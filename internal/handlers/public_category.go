package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"perfumery/internal/store"
)

func GetCategories(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit", route)

		categories, err := catalogStore.FindAllCategories(c.Request.Context())
		if err != nil {
			respondAppError(c, route, storeFailure("find categories", err))
			return
		}

		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}
