package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfumery/internal/store"
)

const sample = `
admins:
  - email: " Admin@Example.com "
    username: admin
categories:
  - name: Men's Perfume
  - name: Women's Perfume
types: [EDP, EDT]
products:
  - title: Millionaire
    pictures: [millionaire.jpg]
    price: 120
    stock: 5
    featured: true
    category: Men's Perfume
    type: EDP
    notes: "Woody, Amber, Leather"
  - title: Velvet Rose
    pictures: [rose.jpg]
    price: 95
    category: Women's Perfume
    type: Unknown
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, f.Admins, 1)
	assert.Len(t, f.Categories, 2)
	assert.Equal(t, []string{"EDP", "EDT"}, f.Types)
	require.Len(t, f.Products, 2)
	assert.Equal(t, "Woody, Amber, Leather", f.Products[0].Notes)

	_, err = Parse([]byte("products: ["))
	assert.Error(t, err)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	mem := store.NewMemory()

	report, err := Apply(ctx, mem, f)
	require.NoError(t, err)
	assert.Equal(t, Report{Admins: 1, Categories: 2, Types: 2, Products: 2}, report)

	report, err = Apply(ctx, mem, f)
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)

	products, err := mem.FindAllProducts(ctx, store.ProductFilter{}, true)
	require.NoError(t, err)
	require.Len(t, products, 2)

	millionaire := products[0]
	assert.Equal(t, "Men's Perfume", millionaire.CategoryName())
	assert.Equal(t, "EDP", millionaire.TypeName())
	require.Len(t, millionaire.Notes, 3)
	assert.Equal(t, "woody", millionaire.Notes[0].Name)
	assert.Equal(t, "#E0E0E0", millionaire.Notes[2].Color)

	assert.Nil(t, products[1].TypeID)

	admin, err := mem.FindAdminByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
}

func TestApplyRejectsInvalidProduct(t *testing.T) {
	f := File{Products: []Product{{Title: "Broken", Price: -5}}}
	_, err := Apply(context.Background(), store.NewMemory(), f)
	assert.Error(t, err)
}
