package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfumery/internal/models"
	"perfumery/internal/store"
)

type TypeCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

func GetAllCategoriesAdmin(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/categories"
		defer handlePanic(c, route)

		categories, err := catalogStore.FindAllCategories(c.Request.Context())
		if err != nil {
			respondAppError(c, route, storeFailure("find categories", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories, "message": "Categories retrieved successfully"})
	}
}

func GetAllTypes(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/types"
		defer handlePanic(c, route)

		types, err := catalogStore.FindAllTypes(c.Request.Context())
		if err != nil {
			respondAppError(c, route, storeFailure("find types", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": types, "message": "Types retrieved successfully"})
	}
}

/*
POST /admin/api/types
- names are unique
*/
func CreateType(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/types"
		defer handlePanic(c, route)

		var req TypeCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "Type name is required")
			return
		}

		created, err := catalogStore.InsertType(c.Request.Context(), models.Type{Name: name})
		if err != nil {
			respondAppError(c, route, writeFailure("insert type", "Type not found", "Type name already exists", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"data": created, "message": "Type created successfully"})
	}
}
