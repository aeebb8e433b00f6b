package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/models"
)

// Memory is a process-local implementation of Catalog, Reviews and Admins.
// Each method is atomic with respect to the others.
type Memory struct {
	mu         sync.RWMutex
	seq        int64
	products   map[primitive.ObjectID]models.Product
	categories map[primitive.ObjectID]models.Category
	types      map[primitive.ObjectID]models.Type
	reviews    map[primitive.ObjectID]memoryReview
	admins     map[string]models.Admin
	order      map[primitive.ObjectID]int64
}

type memoryReview struct {
	review models.Review
	seq    int64
}

func NewMemory() *Memory {
	return &Memory{
		products:   make(map[primitive.ObjectID]models.Product),
		categories: make(map[primitive.ObjectID]models.Category),
		types:      make(map[primitive.ObjectID]models.Type),
		reviews:    make(map[primitive.ObjectID]memoryReview),
		admins:     make(map[string]models.Admin),
		order:      make(map[primitive.ObjectID]int64),
	}
}

func (m *Memory) next(id primitive.ObjectID) {
	m.seq++
	m.order[id] = m.seq
}

func (m *Memory) FindAllProducts(_ context.Context, filter ProductFilter, populate bool) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].ID] < m.order[out[j].ID]
	})

	m.populate(out, populate)
	return out, nil
}

func (m *Memory) populate(products []models.Product, populate bool) {
	if !populate {
		Populate(products, nil, nil)
		return
	}
	categories := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	types := make([]models.Type, 0, len(m.types))
	for _, t := range m.types {
		types = append(types, t)
	}
	Populate(products, categories, types)
}

func (m *Memory) FindProductByID(_ context.Context, id primitive.ObjectID, populate bool) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	out := []models.Product{p}
	m.populate(out, populate)
	return out[0], nil
}

func (m *Memory) InsertProduct(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.products[p.ID] = p
	m.next(p.ID)

	out := []models.Product{p}
	m.populate(out, true)
	return out[0], nil
}

func (m *Memory) UpdateProduct(_ context.Context, id primitive.ObjectID, update ProductUpdate) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	update.Apply(&p)
	m.products[id] = p

	out := []models.Product{p}
	m.populate(out, true)
	return out[0], nil
}

func (m *Memory) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	delete(m.order, id)
	return nil
}

func (m *Memory) FindAllCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *Memory) InsertCategory(_ context.Context, c models.Category) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return models.Category{}, ErrDuplicate
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.categories[c.ID] = c
	m.next(c.ID)
	return c, nil
}

func (m *Memory) FindAllTypes(_ context.Context) ([]models.Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Type, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *Memory) InsertType(_ context.Context, t models.Type) (models.Type, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.types {
		if existing.Name == t.Name {
			return models.Type{}, ErrDuplicate
		}
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.types[t.ID] = t
	m.next(t.ID)
	return t, nil
}

func (m *Memory) InsertReview(_ context.Context, r models.Review) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.seq++
	m.reviews[r.ID] = memoryReview{review: r, seq: m.seq}
	return r, nil
}

func (m *Memory) FindReviews(_ context.Context, filter ReviewFilter) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]memoryReview, 0, len(m.reviews))
	for _, entry := range m.reviews {
		r := entry.review
		if filter.ProductID != nil && r.ProductID != *filter.ProductID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.review.CreatedAt.Equal(b.review.CreatedAt) {
			return a.review.CreatedAt.After(b.review.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]models.Review, 0, len(matched))
	for _, entry := range matched {
		out = append(out, m.withProduct(entry.review))
	}
	return out, nil
}

func (m *Memory) withProduct(r models.Review) models.Review {
	if p, ok := m.products[r.ProductID]; ok {
		r.Product = &models.ReviewProduct{ID: p.ID, Title: p.Title, Picture: p.Picture}
	}
	return r
}

func (m *Memory) UpdateReviewStatus(_ context.Context, id primitive.ObjectID, status models.ReviewStatus) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.reviews[id]
	if !ok {
		return models.Review{}, ErrNotFound
	}
	entry.review.Status = status
	m.reviews[id] = entry
	return m.withProduct(entry.review), nil
}

func (m *Memory) DeleteReview(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *Memory) InsertAdmin(_ context.Context, a models.Admin) (models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(a.Email))
	if _, ok := m.admins[email]; ok {
		return models.Admin{}, ErrDuplicate
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.Email = email
	m.admins[email] = a
	return a, nil
}

func (m *Memory) FindAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.admins[email]
	if !ok {
		return models.Admin{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) SetOTP(_ context.Context, email string, otp models.OneTimeCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[email]
	if !ok {
		return ErrNotFound
	}
	a.OTP = &otp
	m.admins[email] = a
	return nil
}

func (m *Memory) ConsumeOTP(_ context.Context, email string, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[email]
	if !ok {
		return false, ErrNotFound
	}
	if a.OTP == nil || a.OTP.Hash != hash {
		return false, nil
	}
	a.OTP = nil
	m.admins[email] = a
	return true, nil
}

var (
	_ Catalog = (*Memory)(nil)
	_ Reviews = (*Memory)(nil)
	_ Admins  = (*Memory)(nil)
)
