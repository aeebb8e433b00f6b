package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/apperr"
	"perfumery/internal/catalog"
	"perfumery/internal/models"
	"perfumery/internal/store"
)

/* =======================
   REQUEST MODELS
======================= */

type ProductCreateRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Picture     models.StringList `json:"picture" binding:"required"`
	Price       *float64          `json:"price" binding:"required,gte=0"`
	Stock       *int              `json:"stock" binding:"required,gte=0"`
	Featured    bool              `json:"featured"`
	Rating      *float64          `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Category    referenceID       `json:"category"`
	Type        referenceID       `json:"Type"`
	Notes       models.NoteList   `json:"notes"`
}

type ProductUpdateRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Picture     *models.StringList `json:"picture"`
	Price       *float64           `json:"price" binding:"omitempty,gte=0"`
	Stock       *int               `json:"stock" binding:"omitempty,gte=0"`
	Featured    *bool              `json:"featured"`
	Rating      *float64           `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Category    *referenceID       `json:"category"`
	Type        *referenceID       `json:"Type"`
	Notes       *models.NoteList   `json:"notes"`
}

/* =======================
   HELPERS
======================= */

// referenceID is a category or type reference in a request body. It accepts
// a hex id or the populated object returned by the read endpoints, so a
// product read back from the API can be sent unchanged.
type referenceID string

func (r *referenceID) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		*r = referenceID(hex)
		return nil
	}

	var ref struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("reference must be an id or an object with an id")
	}
	if ref.ID == "" {
		ref.ID = ref.LegacyID
	}
	*r = referenceID(ref.ID)
	return nil
}

// optionalObjectID parses a reference field; an empty string means unset.
func optionalObjectID(field, raw string) (*primitive.ObjectID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("invalid %s", field))
	}
	return &id, nil
}

func (req ProductCreateRequest) toProduct() (models.Product, error) {
	product := models.Product{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Picture:     req.Picture,
		Price:       *req.Price,
		Stock:       *req.Stock,
		Featured:    req.Featured,
		Notes:       req.Notes,
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if product.Title == "" || len(product.Picture) == 0 {
		return models.Product{}, apperr.Validation("Missing required fields: title, picture, price, stock")
	}

	var err error
	if product.CategoryID, err = optionalObjectID("category", string(req.Category)); err != nil {
		return models.Product{}, err
	}
	if product.TypeID, err = optionalObjectID("Type", string(req.Type)); err != nil {
		return models.Product{}, err
	}
	if product.Notes == nil {
		product.Notes = models.NoteList{}
	}

	if err := product.Validate(); err != nil {
		return models.Product{}, apperr.Validation(err.Error())
	}
	return product, nil
}

func (req ProductUpdateRequest) toUpdate() (store.ProductUpdate, error) {
	update := store.ProductUpdate{
		Description: req.Description,
		Picture:     req.Picture,
		Price:       req.Price,
		Stock:       req.Stock,
		Featured:    req.Featured,
		Rating:      req.Rating,
		Notes:       req.Notes,
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return store.ProductUpdate{}, apperr.Validation("title cannot be empty")
		}
		update.Title = &title
	}

	// empty references are ignored rather than cleared
	var err error
	if req.Category != nil {
		if update.CategoryID, err = optionalObjectID("category", string(*req.Category)); err != nil {
			return store.ProductUpdate{}, err
		}
	}
	if req.Type != nil {
		if update.TypeID, err = optionalObjectID("Type", string(*req.Type)); err != nil {
			return store.ProductUpdate{}, err
		}
	}

	if update.Empty() {
		return store.ProductUpdate{}, apperr.Validation("no fields to update")
	}
	return update, nil
}

/* =======================
   GET (ADMIN) – LIST
======================= */

func GetAllProductsAdmin(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		products, err := catalogStore.FindAllProducts(c.Request.Context(), store.ProductFilter{}, true)
		if err != nil {
			respondAppError(c, route, storeFailure("find products", err))
			return
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			products = catalog.Search(products, search)
		}

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr == "" && limitStr == "" {
			c.JSON(http.StatusOK, gin.H{
				"data":    products,
				"message": "Products retrieved successfully",
			})
			return
		}

		page, limit, err := parsePaginationParams(pageStr, limitStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		total := len(products)
		totalPages := 0
		if total > 0 {
			totalPages = int(math.Ceil(float64(total) / float64(limit)))
		}

		c.JSON(http.StatusOK, gin.H{
			"data":    paginate(products, page, limit),
			"message": "Products retrieved successfully",
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

func GetProductByIDAdmin(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		product, err := catalogStore.FindProductByID(c.Request.Context(), id, true)
		if err != nil {
			respondAppError(c, route, lookupFailure("find product", "Product not found", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": product, "message": "Product retrieved successfully"})
	}
}

/* =======================
   CREATE / UPDATE / DELETE
======================= */

func CreateProduct(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		product, err := req.toProduct()
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		created, err := catalogStore.InsertProduct(c.Request.Context(), product)
		if err != nil {
			respondAppError(c, route, storeFailure("insert product", err))
			return
		}

		log.Printf("[%s] created product %s (%d notes)", route, created.ID.Hex(), len(created.Notes))
		c.JSON(http.StatusCreated, gin.H{"data": created, "message": "Product created successfully"})
	}
}

func UpdateProduct(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		update, err := req.toUpdate()
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		updated, err := catalogStore.UpdateProduct(c.Request.Context(), id, update)
		if err != nil {
			respondAppError(c, route, lookupFailure("update product", "Product not found", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": updated, "message": "Product updated successfully"})
	}
}

func DeleteProduct(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		if err := catalogStore.DeleteProduct(c.Request.Context(), id); err != nil {
			respondAppError(c, route, lookupFailure("delete product", "Product not found", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": nil, "message": "Product deleted successfully"})
	}
}
