package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func priceProduct(price string, originalPrice string) Product {
	p := Product{Price: decimal.RequireFromString(price)}
	if originalPrice != "" {
		p.OriginalPrice = decimal.NewNullDecimal(decimal.RequireFromString(originalPrice))
	}
	return p
}

func TestProductDiscounted(t *testing.T) {
	tests := []struct {
		name          string
		price         string
		originalPrice string
		want          bool
	}{
		{
			name:          "original above price is a discount",
			price:         "79.99",
			originalPrice: "99.99",
			want:          true,
		},
		{
			name:          "original below price is not a discount",
			price:         "79.99",
			originalPrice: "65.00",
			want:          false,
		},
		{
			name:          "original equal to price is not a discount",
			price:         "79.99",
			originalPrice: "79.99",
			want:          false,
		},
		{
			name:  "absent original price is not a discount",
			price: "79.99",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := priceProduct(tt.price, tt.originalPrice)
			assert.Equal(t, tt.want, p.Discounted())
		})
	}
}

func TestProductDiscountPercent(t *testing.T) {
	tests := []struct {
		name          string
		price         string
		originalPrice string
		want          int
	}{
		{
			name:          "quarter off",
			price:         "75.00",
			originalPrice: "100.00",
			want:          25,
		},
		{
			name:          "rounded to nearest percent",
			price:         "66.67",
			originalPrice: "100.00",
			want:          33,
		},
		{
			name:          "not discounted yields zero",
			price:         "79.99",
			originalPrice: "65.00",
			want:          0,
		},
		{
			name:  "no original price yields zero",
			price: "79.99",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := priceProduct(tt.price, tt.originalPrice)
			assert.Equal(t, tt.want, p.DiscountPercent())
		})
	}
}

func TestProductInStock(t *testing.T) {
	assert.True(t, (&Product{StockQuantity: 3}).InStock())
	assert.False(t, (&Product{StockQuantity: 0}).InStock())
	assert.False(t, (&Product{StockQuantity: -1}).InStock())
}
