// Package catalog collapses individual credential records into the
// products shown in the storefront.
//
// Records are grouped by (name, plan, category, price); every available
// record of a group adds one unit of stock. The same key is used by every
// read path (storefront, admin product list, statistics).
package catalog

import (
	"sort"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product is a derived, non-persisted view over a group of records.
type Product struct {
	// ID is the id of the first record of the group.
	ID string `json:"id"`
	// Name is the record name with the plan appended, if any.
	Name string `json:"name"`
	// BaseName is the record name without the plan.
	BaseName string `json:"base_name"`
	Plan     string `json:"plan"`
	Type     string `json:"type"`
	// Price is the effective price after the active discount.
	Price              decimal.Decimal `json:"price"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	HasDiscount        bool            `json:"has_discount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ImageURL           string          `json:"image_url"`
	DisplayOrder       int             `json:"display_order"`
	Stock              int             `json:"stock"`
}

// Key identifies the group a record belongs to.
type Key struct {
	Name  string
	Plan  string
	Type  string
	Price string
}

// KeyOf returns the grouping key of a record. Prices are compared by value,
// so 15.9 and 15.90 fall in the same group.
func KeyOf(a *models.Account) Key {
	return Key{Name: a.Name, Plan: a.Plan, Type: a.Type, Price: a.Price.String()}
}

// DisplayName is name followed by the plan, if any.
func DisplayName(name, plan string) string {
	if plan == "" {
		return name
	}
	return name + " " + plan
}

// DiscountedPrice applies pct percent off price.
func DiscountedPrice(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

// Build groups the available, named records into products and sorts them
// by DisplayOrder. Equal orders keep the order in which groups first appear
// in records. discount may be nil.
func Build(records []models.Account, discount *models.Discount) []Product {
	index := make(map[Key]int)
	products := make([]Product, 0)

	for i := range records {
		acc := &records[i]
		if acc.Status != models.StatusAvailable || acc.Name == "" {
			continue
		}

		key := KeyOf(acc)
		if pos, ok := index[key]; ok {
			products[pos].Stock++
			continue
		}

		p := Product{
			ID:                 acc.ID,
			Name:               DisplayName(acc.Name, acc.Plan),
			BaseName:           acc.Name,
			Plan:               acc.Plan,
			Type:               acc.Type,
			Price:              acc.Price,
			OriginalPrice:      acc.Price,
			DiscountPercentage: decimal.Zero,
			ImageURL:           acc.ImageURL,
			DisplayOrder:       acc.DisplayOrder,
			Stock:              1,
		}
		if discount != nil && discount.AppliesToCategory(acc.Type) {
			p.Price = DiscountedPrice(acc.Price, discount.Percentage)
			p.DiscountPercentage = discount.Percentage
			p.HasDiscount = p.Price.LessThan(p.OriginalPrice)
		}

		index[key] = len(products)
		products = append(products, p)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].DisplayOrder < products[j].DisplayOrder
	})
	return products
}

// Statistics summarizes the storefront from the admin's point of view.
type Statistics struct {
	ActiveProducts       int             `json:"active_products"`
	TotalStock           int             `json:"total_stock"`
	StoreValue           decimal.Decimal `json:"store_value"`
	VisibilityPercentage float64         `json:"visibility_percentage"`
}

// Stats computes store statistics over every record.
func Stats(records []models.Account) Statistics {
	s := Statistics{StoreValue: decimal.Zero}
	s.ActiveProducts = len(Build(records, nil))
	for i := range records {
		if records[i].Status != models.StatusAvailable || records[i].Name == "" {
			continue
		}
		s.TotalStock++
		s.StoreValue = s.StoreValue.Add(records[i].Price)
	}
	s.VisibilityPercentage = percent(s.TotalStock, len(records))
	return s
}

// percent returns part/total*100 rounded to one decimal, 0 when total is 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v, _ := decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		Float64()
	return v
}
