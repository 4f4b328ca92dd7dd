package service

import (
	"testing"

	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductService_CreateValidates(t *testing.T) {
	db := initTestDB(t)
	svc := NewProductService(repository.NewProductRepo(db), db)

	tests := []struct {
		name    string
		in      ProductInput
		wantErr bool
	}{
		{"valid", ProductInput{Name: "Flat White", Category: "coffee", PriceOMR: price("1.800")}, false},
		{"free item", ProductInput{Name: "Water", Category: "other", PriceOMR: price("0")}, false},
		{"missing name", ProductInput{Category: "coffee", PriceOMR: price("1")}, true},
		{"unknown category", ProductInput{Name: "Soup", Category: "soup", PriceOMR: price("1")}, true},
		{"negative price", ProductInput{Name: "Refund", Category: "other", PriceOMR: price("-0.100")}, true},
		{"missing price", ProductInput{Name: "Mystery", Category: "other"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.CreateProduct(&tt.in, 1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, p.ID)
			assert.True(t, p.IsActive)
			assert.Equal(t, "1", p.CreatedBy)
		})
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	db := initTestDB(t)
	svc := NewProductService(repository.NewProductRepo(db), db)
	latte := createProduct(t, db, "Latte", model.CategoryCoffee, "1.500")

	inactive := false
	updated, err := svc.UpdateProduct(latte.ID, &ProductInput{
		Name:     "Iced Latte",
		Category: "cold_drink",
		PriceOMR: price("1.7504"),
		IsActive: &inactive,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, "Iced Latte", updated.Name)
	assert.Equal(t, model.CategoryColdDrink, updated.Category)
	assertDecimal(t, "1.750", updated.PriceOMR)
	assert.False(t, updated.IsActive)

	active, err := svc.GetActiveProducts()
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.UpdateProduct(999, &ProductInput{Name: "X", Category: "tea", PriceOMR: price("1")}, 7)
	assert.ErrorIs(t, err, ErrProductMissing)

	require.NoError(t, svc.DeleteProduct(latte.ID, 7))
	assert.ErrorIs(t, svc.DeleteProduct(latte.ID, 7), ErrProductMissing)

	all, err := svc.GetAllProducts()
	require.NoError(t, err)
	assert.Empty(t, all)
}
