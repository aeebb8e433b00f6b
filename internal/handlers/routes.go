package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"perfumery/internal/auth"
	"perfumery/internal/middleware"
	"perfumery/internal/moderation"
	"perfumery/internal/store"
)

type Deps struct {
	Catalog    store.Catalog
	Moderation *moderation.Service
	Auth       *auth.Service
	Cookies    CookieOptions
}

// Register mounts every public and admin route on r.
func Register(r *gin.Engine, deps Deps) {
	r.GET("/products", GetProducts(deps.Catalog))
	r.GET("/products/search", SearchProducts(deps.Catalog))
	r.GET("/products/buckets", GetBuckets())
	r.GET("/products/category/:categoryId", GetProductsByCategory(deps.Catalog))
	r.GET("/products/:productId", GetProductByID(deps.Catalog))
	r.GET("/categories", GetCategories(deps.Catalog))

	r.POST("/products/:productId/reviews", SubmitReview(deps.Moderation))
	r.GET("/products/:productId/reviews", GetApprovedReviews(deps.Moderation))

	r.POST("/admin/login", AdminLogin(deps.Auth))
	r.POST("/admin/verify-otp", VerifyOTP(deps.Auth, deps.Cookies))
	r.POST("/admin/logout", AdminLogout(deps.Cookies))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(deps.Auth))
	{
		admin.GET("/me", AdminMe())

		admin.GET("/reviews", GetAllReviewsAdmin(deps.Moderation))
		admin.PATCH("/reviews/:reviewId/approve", ApproveReview(deps.Moderation))
		admin.PATCH("/reviews/:reviewId/reject", RejectReview(deps.Moderation))
		admin.DELETE("/reviews/:reviewId", DeleteReview(deps.Moderation))

		admin.GET("/products", GetAllProductsAdmin(deps.Catalog))
		admin.GET("/products/:id", GetProductByIDAdmin(deps.Catalog))
		admin.POST("/products", CreateProduct(deps.Catalog))
		admin.PUT("/products/:id", UpdateProduct(deps.Catalog))
		admin.DELETE("/products/:id", DeleteProduct(deps.Catalog))

		admin.GET("/categories", GetAllCategoriesAdmin(deps.Catalog))
		admin.GET("/types", GetAllTypes(deps.Catalog))
		admin.POST("/types", CreateType(deps.Catalog))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route Not Found"})
	})
}
