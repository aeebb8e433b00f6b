// Package seed loads the initial catalog and operator accounts from a YAML
// file into a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"

	"perfumery/internal/models"
	"perfumery/internal/notes"
	"perfumery/internal/store"
)

type File struct {
	Admins     []Admin    `yaml:"admins"`
	Categories []Category `yaml:"categories"`
	Types      []string   `yaml:"types"`
	Products   []Product  `yaml:"products"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
}

type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type Product struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Pictures    []string `yaml:"pictures"`
	Price       float64  `yaml:"price"`
	Stock       int      `yaml:"stock"`
	Featured    bool     `yaml:"featured"`
	Rating      float64  `yaml:"rating"`
	Category    string   `yaml:"category"`
	Type        string   `yaml:"type"`
	// Notes is a comma-separated list, normalized like admin input.
	Notes string `yaml:"notes"`
}

// Target is a store that can receive seed data.
type Target interface {
	store.Catalog
	InsertCategory(ctx context.Context, c models.Category) (models.Category, error)
	InsertAdmin(ctx context.Context, a models.Admin) (models.Admin, error)
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing seed YAML: %w", err)
	}
	return f, nil
}

// Report counts the records inserted by Apply.
type Report struct {
	Admins     int
	Categories int
	Types      int
	Products   int
}

// Apply inserts records that are not present yet: admins by email,
// categories and types by name, products by title.
func Apply(ctx context.Context, target Target, f File) (Report, error) {
	var report Report

	for _, a := range f.Admins {
		_, err := target.InsertAdmin(ctx, models.Admin{
			Email:    strings.ToLower(strings.TrimSpace(a.Email)),
			Username: a.Username,
		})
		switch {
		case err == nil:
			report.Admins++
		case errors.Is(err, store.ErrDuplicate):
			log.Printf("[SEED] admin %s already exists", a.Email)
		default:
			return report, fmt.Errorf("seeding admin %s: %w", a.Email, err)
		}
	}

	for _, c := range f.Categories {
		_, err := target.InsertCategory(ctx, models.Category{Name: c.Name, Description: c.Description, Image: c.Image})
		switch {
		case err == nil:
			report.Categories++
		case errors.Is(err, store.ErrDuplicate):
		default:
			return report, fmt.Errorf("seeding category %s: %w", c.Name, err)
		}
	}

	for _, name := range f.Types {
		_, err := target.InsertType(ctx, models.Type{Name: name})
		switch {
		case err == nil:
			report.Types++
		case errors.Is(err, store.ErrDuplicate):
		default:
			return report, fmt.Errorf("seeding type %s: %w", name, err)
		}
	}

	categoryIDs, typeIDs, err := referenceIDs(ctx, target)
	if err != nil {
		return report, err
	}

	existing, err := target.FindAllProducts(ctx, store.ProductFilter{}, false)
	if err != nil {
		return report, fmt.Errorf("listing products: %w", err)
	}
	titles := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		titles[p.Title] = struct{}{}
	}

	for _, p := range f.Products {
		if _, ok := titles[p.Title]; ok {
			continue
		}
		product := models.Product{
			Title:       p.Title,
			Description: p.Description,
			Picture:     models.StringList(p.Pictures),
			Price:       p.Price,
			Stock:       p.Stock,
			Featured:    p.Featured,
			Rating:      p.Rating,
			Notes:       models.NoteList(notes.Normalize(p.Notes)),
		}
		if id, ok := categoryIDs[p.Category]; ok {
			product.CategoryID = &id
		}
		if id, ok := typeIDs[p.Type]; ok {
			product.TypeID = &id
		}
		if err := product.Validate(); err != nil {
			return report, fmt.Errorf("seeding product %s: %w", p.Title, err)
		}
		if _, err := target.InsertProduct(ctx, product); err != nil {
			return report, fmt.Errorf("seeding product %s: %w", p.Title, err)
		}
		titles[p.Title] = struct{}{}
		report.Products++
	}

	return report, nil
}

func referenceIDs(ctx context.Context, target Target) (map[string]primitive.ObjectID, map[string]primitive.ObjectID, error) {
	categories, err := target.FindAllCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing categories: %w", err)
	}
	types, err := target.FindAllTypes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing types: %w", err)
	}

	categoryIDs := make(map[string]primitive.ObjectID, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}
	typeIDs := make(map[string]primitive.ObjectID, len(types))
	for _, t := range types {
		typeIDs[t.Name] = t.ID
	}
	return categoryIDs, typeIDs, nil
}
