package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfumery/internal/catalog"
	"perfumery/internal/models"
	"perfumery/internal/store"
)

func summaries(products []models.Product) []models.ProductSummary {
	out := make([]models.ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, p.Summary())
	}
	return out
}

/*
GET /products
- ?featured=true → featured only
- ?bucket=men|women|... → storefront collection
- ?search=... → relevance search over the whole catalog
*/
func GetProducts(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit featured=%s bucket=%s search=%s",
			route,
			c.Query("featured"),
			c.Query("bucket"),
			c.Query("search"),
		)

		filter := store.ProductFilter{}
		if strings.EqualFold(strings.TrimSpace(c.Query("featured")), "true") {
			featured := true
			filter.Featured = &featured
		}

		search, searching := c.GetQuery("search")
		// search needs category and type names, listings need the category
		products, err := catalogStore.FindAllProducts(c.Request.Context(), filter, true)
		if err != nil {
			respondAppError(c, route, storeFailure("find products", err))
			return
		}

		if bucket := catalog.ParseBucket(c.Query("bucket")); bucket != catalog.BucketAll {
			products = catalog.FilterByBucket(products, bucket)
		}
		if searching {
			products = catalog.Search(products, search)
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, summaries(products))
	}
}

/*
GET /products/search?q=
- full product documents, ranked
*/
func SearchProducts(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/search"
		defer handlePanic(c, route)

		query := c.Query("q")
		log.Printf("[%s] hit q=%s", route, query)

		products, err := catalogStore.FindAllProducts(c.Request.Context(), store.ProductFilter{}, true)
		if err != nil {
			respondAppError(c, route, storeFailure("find products", err))
			return
		}

		results := catalog.Search(products, query)

		log.Printf("[%s] returning %d of %d products", route, len(results), len(products))
		c.JSON(http.StatusOK, gin.H{
			"query":         strings.TrimSpace(query),
			"total":         len(results),
			"totalProducts": len(products),
			"data":          results,
		})
	}
}

// GetBuckets lists the storefront collections with their titles.
func GetBuckets() gin.HandlerFunc {
	return func(c *gin.Context) {
		buckets := catalog.Buckets()
		out := make([]gin.H, 0, len(buckets))
		for _, b := range buckets {
			out = append(out, gin.H{"key": b, "title": catalog.Title(b)})
		}
		c.JSON(http.StatusOK, out)
	}
}

/*
GET /products/category/:categoryId
*/
func GetProductsByCategory(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/category/:categoryId"
		defer handlePanic(c, route)

		categoryID, ok := parseObjectID(c, route, "categoryId")
		if !ok {
			return
		}

		log.Printf("[%s] fetching products for category %s", route, categoryID.Hex())

		products, err := catalogStore.FindAllProducts(
			c.Request.Context(),
			store.ProductFilter{CategoryID: &categoryID},
			true,
		)
		if err != nil {
			respondAppError(c, route, storeFailure("find products by category", err))
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, summaries(products))
	}
}

/*
GET /products/:productId
*/
func GetProductByID(catalogStore store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:productId"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId")
		if !ok {
			return
		}

		product, err := catalogStore.FindProductByID(c.Request.Context(), productID, true)
		if err != nil {
			respondAppError(c, route, lookupFailure("find product", "Product not found", err))
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
