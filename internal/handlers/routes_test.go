package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"perfumery/internal/auth"
	"perfumery/internal/middleware"
	"perfumery/internal/models"
	"perfumery/internal/moderation"
	"perfumery/internal/store"
)

type codeSink struct {
	last string
}

func (s *codeSink) Dispatch(_ context.Context, _ string, code string) error {
	s.last = code
	return nil
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	mem      *store.Memory
	codes    *codeSink
	men      models.Product
	women    models.Product
	category models.Category
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	mem := store.NewMemory()
	menCat, err := mem.InsertCategory(ctx, models.Category{Name: "Men's Perfume"})
	require.NoError(t, err)
	womenCat, err := mem.InsertCategory(ctx, models.Category{Name: "Women's Perfume"})
	require.NoError(t, err)
	edp, err := mem.InsertType(ctx, models.Type{Name: "EDP"})
	require.NoError(t, err)

	men, err := mem.InsertProduct(ctx, models.Product{
		Title:      "Millionaire",
		Picture:    models.StringList{"millionaire.jpg"},
		Price:      120,
		Stock:      4,
		Featured:   true,
		CategoryID: &menCat.ID,
		TypeID:     &edp.ID,
		Notes:      models.NoteList{{Name: "woody", Color: "#BCAAA4"}},
	})
	require.NoError(t, err)
	women, err := mem.InsertProduct(ctx, models.Product{
		Title:      "Velvet Rose",
		Picture:    models.StringList{"rose.jpg"},
		Price:      95,
		CategoryID: &womenCat.ID,
		TypeID:     &edp.ID,
	})
	require.NoError(t, err)

	_, err = mem.InsertAdmin(ctx, models.Admin{Email: "ops@example.com"})
	require.NoError(t, err)

	codes := &codeSink{}
	router := gin.New()
	Register(router, Deps{
		Catalog:    mem,
		Moderation: moderation.NewService(mem, mem),
		Auth:       auth.NewService(mem, codes, auth.Options{Secret: "test-secret", BcryptCost: bcrypt.MinCost}),
	})

	return &testServer{t: t, router: router, mem: mem, codes: codes, men: men, women: women, category: menCat}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login() string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/admin/login", gin.H{"email": "ops@example.com"}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/admin/verify-otp", gin.H{"email": "ops@example.com", "otp": s.codes.last}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decode(s.t, w, &body)
	require.NotEmpty(s.t, body.Data.Token)
	return body.Data.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func TestGetProductsListings(t *testing.T) {
	s := newTestServer(t)

	var all []models.ProductSummary
	w := s.do(http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &all)
	require.Len(t, all, 2)
	assert.Equal(t, "Men's Perfume", all[0].Category.Name)

	var featured []models.ProductSummary
	decode(t, s.do(http.MethodGet, "/products?featured=true", nil, ""), &featured)
	require.Len(t, featured, 1)
	assert.Equal(t, "Millionaire", featured[0].Title)

	var women []models.ProductSummary
	decode(t, s.do(http.MethodGet, "/products?bucket=women", nil, ""), &women)
	require.Len(t, women, 1)
	assert.Equal(t, "Velvet Rose", women[0].Title)

	var searched []models.ProductSummary
	decode(t, s.do(http.MethodGet, "/products?search=rose", nil, ""), &searched)
	require.Len(t, searched, 1)
	assert.Equal(t, s.women.ID, searched[0].ID)
}

func TestSearchProductsEnvelope(t *testing.T) {
	s := newTestServer(t)

	var body struct {
		Query         string           `json:"query"`
		Total         int              `json:"total"`
		TotalProducts int              `json:"totalProducts"`
		Data          []models.Product `json:"data"`
	}
	decode(t, s.do(http.MethodGet, "/products/search?q=woody", nil, ""), &body)
	assert.Equal(t, "woody", body.Query)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 2, body.TotalProducts)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Millionaire", body.Data[0].Title)

	decode(t, s.do(http.MethodGet, "/products/search?q=a", nil, ""), &body)
	assert.Equal(t, 0, body.Total)
}

func TestProductLookups(t *testing.T) {
	s := newTestServer(t)

	var product models.Product
	w := s.do(http.MethodGet, "/products/"+s.men.ID.Hex(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &product)
	assert.Equal(t, "Millionaire", product.Title)
	assert.True(t, product.InStock)
	require.NotNil(t, product.Type)
	assert.Equal(t, "EDP", product.Type.Name)

	w = s.do(http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", errorMessage(t, w))

	w = s.do(http.MethodGet, "/products/not-an-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var byCategory []models.ProductSummary
	decode(t, s.do(http.MethodGet, "/products/category/"+s.category.ID.Hex(), nil, ""), &byCategory)
	require.Len(t, byCategory, 1)
	assert.Equal(t, s.men.ID, byCategory[0].ID)

	var buckets []struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	}
	decode(t, s.do(http.MethodGet, "/products/buckets", nil, ""), &buckets)
	assert.Len(t, buckets, 8)

	w = s.do(http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route Not Found", errorMessage(t, w))
}

func TestSubmitReviewResponses(t *testing.T) {
	s := newTestServer(t)
	path := "/products/" + s.men.ID.Hex() + "/reviews"

	w := s.do(http.MethodPost, path, gin.H{"reviewerName": "Ann", "rating": 5, "comment": "Superb"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, path, gin.H{"reviewerName": "Ann", "rating": 0, "comment": "Bad"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5.", errorMessage(t, w))

	w = s.do(http.MethodPost, path, gin.H{"rating": 4}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name, rating, and comment are required.", errorMessage(t, w))

	w = s.do(http.MethodPost, "/products/"+primitive.NewObjectID().Hex()+"/reviews",
		gin.H{"reviewerName": "Ann", "rating": 4, "comment": "ok"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var public []models.Review
	decode(t, s.do(http.MethodGet, path, nil, ""), &public)
	assert.Empty(t, public)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/admin/api/reviews", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized - No token provided", errorMessage(t, w))

	w = s.do(http.MethodGet, "/admin/api/reviews", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized - Invalid token", errorMessage(t, w))

	w = s.do(http.MethodPost, "/admin/login", gin.H{"email": "stranger@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/admin/verify-otp", gin.H{"email": "ops@example.com", "otp": "123456"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyOTPSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/admin/login", gin.H{"email": "ops@example.com"}, "")
	w := s.do(http.MethodPost, "/admin/verify-otp", gin.H{"email": "ops@example.com", "otp": s.codes.last}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, 3600, session.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session.Value})
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "ops@example.com")

	w = s.do(http.MethodPost, "/admin/verify-otp", gin.H{"email": "ops@example.com", "otp": s.codes.last}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "code is single use")
}

func TestAdminModerationFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login()
	reviewsPath := "/products/" + s.men.ID.Hex() + "/reviews"

	w := s.do(http.MethodPost, reviewsPath, gin.H{"reviewerName": "Ann", "rating": 5, "comment": "Superb"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var queue struct {
		Data []models.Review `json:"data"`
	}
	decode(t, s.do(http.MethodGet, "/admin/api/reviews", nil, token), &queue)
	require.Len(t, queue.Data, 1)
	review := queue.Data[0]
	assert.Equal(t, models.ReviewPending, review.Status)
	require.NotNil(t, review.Product)
	assert.Equal(t, "Millionaire", review.Product.Title)

	w = s.do(http.MethodPatch, "/admin/api/reviews/"+review.ID.Hex()+"/approve", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var public []models.Review
	decode(t, s.do(http.MethodGet, reviewsPath, nil, ""), &public)
	require.Len(t, public, 1)
	assert.Equal(t, "Ann", public[0].ReviewerName)

	w = s.do(http.MethodPatch, "/admin/api/reviews/"+review.ID.Hex()+"/reject", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, s.do(http.MethodGet, reviewsPath, nil, ""), &public)
	assert.Empty(t, public)

	w = s.do(http.MethodGet, "/admin/api/reviews?status=bogus", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/admin/api/reviews/"+review.ID.Hex(), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, s.do(http.MethodGet, "/admin/api/reviews?status=all", nil, token), &queue)
	assert.Empty(t, queue.Data)

	w = s.do(http.MethodDelete, "/admin/api/reviews/"+review.ID.Hex(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminProductCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	w := s.do(http.MethodPost, "/admin/api/products", gin.H{
		"title":    "Aqua Breeze",
		"picture":  "aqua.jpg",
		"price":    60,
		"stock":    0,
		"category": s.category.ID.Hex(),
		"notes":    "Citrus, fresh",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.Product `json:"data"`
	}
	decode(t, w, &created)
	assert.Equal(t, models.StringList{"aqua.jpg"}, created.Data.Picture)
	assert.Equal(t, models.NoteList{{Name: "citrus", Color: "#FFE082"}, {Name: "fresh", Color: "#C8E6C9"}}, created.Data.Notes)
	assert.False(t, created.Data.InStock)

	w = s.do(http.MethodPost, "/admin/api/products", gin.H{"title": "Broken", "picture": "x.jpg", "price": -1, "stock": 1}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := created.Data.ID.Hex()
	w = s.do(http.MethodPut, "/admin/api/products/"+id, gin.H{"stock": 3}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	assert.True(t, created.Data.InStock)

	w = s.do(http.MethodPut, "/admin/api/products/"+id, gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var page struct {
		Data       []models.Product `json:"data"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	decode(t, s.do(http.MethodGet, "/admin/api/products?page=1&limit=2", nil, token), &page)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	w = s.do(http.MethodDelete, "/admin/api/products/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/admin/api/products/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTypeConflict(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	w := s.do(http.MethodPost, "/admin/api/types", gin.H{"name": "EDT"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/admin/api/types", gin.H{"name": "EDT"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Type name already exists", errorMessage(t, w))

	var types struct {
		Data []models.Type `json:"data"`
	}
	decode(t, s.do(http.MethodGet, "/admin/api/types", nil, token), &types)
	assert.Len(t, types.Data, 2)
}

func TestAdminProductReadBackRoundTrip(t *testing.T) {
	s := newTestServer(t)
	token := s.login()
	path := "/admin/api/products/" + s.men.ID.Hex()

	w := s.do(http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var read struct {
		Data map[string]any `json:"data"`
	}
	decode(t, w, &read)
	require.Contains(t, read.Data, "Type")
	assert.NotContains(t, read.Data, "type")

	body := read.Data
	body["price"] = 130
	w = s.do(http.MethodPut, path, body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Data models.Product `json:"data"`
	}
	decode(t, w, &updated)
	assert.Equal(t, 130.0, updated.Data.Price)
	require.NotNil(t, updated.Data.Type)
	assert.Equal(t, "EDP", updated.Data.Type.Name)
	require.NotNil(t, updated.Data.Category)
	assert.Equal(t, s.category.ID, updated.Data.Category.ID)
}

func TestReferenceIDAcceptsHexOrObject(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	var fromHex, fromObject, fromLegacy referenceID
	require.NoError(t, json.Unmarshal([]byte(`"`+id+`"`), &fromHex))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"`+id+`","name":"EDP"}`), &fromObject))
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"`+id+`"}`), &fromLegacy))
	assert.Equal(t, referenceID(id), fromHex)
	assert.Equal(t, referenceID(id), fromObject)
	assert.Equal(t, referenceID(id), fromLegacy)

	var bad referenceID
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestMalformedBodyDetailsAreClientSafe(t *testing.T) {
	s := newTestServer(t)
	path := "/products/" + s.men.ID.Hex() + "/reviews"

	w := s.do(http.MethodPost, path, gin.H{"reviewerName": "Ann", "rating": 4.5, "comment": "Nice"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	decode(t, w, &body)
	assert.Equal(t, "rating must be an integer", body.Details)
	assert.NotContains(t, w.Body.String(), "Go struct")

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{"rating":`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "request body must be valid JSON", body.Details)

	w = s.do(http.MethodPost, path, gin.H{"reviewerName": 7, "rating": 4, "comment": "Nice"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "reviewerName must be a string", body.Details)
}
