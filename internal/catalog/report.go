package catalog

import (
	"sort"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/shopspring/decimal"
)

// Price range buckets used by Analytics, upper bounds inclusive.
const (
	RangeUpTo10  = "0-10"
	RangeUpTo20  = "10-20"
	RangeUpTo50  = "20-50"
	RangeAbove50 = "50+"
)

var (
	ten    = decimal.NewFromInt(10)
	twenty = decimal.NewFromInt(20)
	fifty  = decimal.NewFromInt(50)
)

// AnalyticsReport is the inventory breakdown served to the admin panel.
type AnalyticsReport struct {
	TotalProducts     int             `json:"total_products"`
	AvailableProducts int             `json:"available_products"`
	SoldProducts      int             `json:"sold_products"`
	Revenue           decimal.Decimal `json:"revenue"`
	InventoryValue    decimal.Decimal `json:"inventory_value"`
	Categories        map[string]int  `json:"categories"`
	PriceRanges       map[string]int  `json:"price_ranges"`
}

// Analytics computes the analytics report over every record.
func Analytics(records []models.Account) AnalyticsReport {
	r := AnalyticsReport{
		TotalProducts:  len(records),
		Revenue:        decimal.Zero,
		InventoryValue: decimal.Zero,
		Categories:     map[string]int{},
		PriceRanges:    map[string]int{RangeUpTo10: 0, RangeUpTo20: 0, RangeUpTo50: 0, RangeAbove50: 0},
	}
	for i := range records {
		acc := &records[i]
		switch acc.Status {
		case models.StatusSold:
			r.SoldProducts++
			r.Revenue = r.Revenue.Add(acc.Price)
		case models.StatusAvailable:
			r.AvailableProducts++
			r.InventoryValue = r.InventoryValue.Add(acc.Price)
			r.Categories[acc.Type]++
			r.PriceRanges[priceRange(acc.Price)]++
		}
	}
	return r
}

func priceRange(p decimal.Decimal) string {
	switch {
	case p.LessThanOrEqual(ten):
		return RangeUpTo10
	case p.LessThanOrEqual(twenty):
		return RangeUpTo20
	case p.LessThanOrEqual(fifty):
		return RangeUpTo50
	default:
		return RangeAbove50
	}
}

// NameCount is a product name with the number of records sold.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardReport backs the admin dashboard.
type DashboardReport struct {
	TotalAccounts     int             `json:"total_accounts"`
	AvailableAccounts int             `json:"available_accounts"`
	SoldAccounts      int             `json:"sold_accounts"`
	FailedAccounts    int             `json:"failed_accounts"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Categories        map[string]int  `json:"categories"`
	TopProducts       []NameCount     `json:"top_products"`
	ConversionRate    float64         `json:"conversion_rate"`
}

const topProductsLimit = 5

// Dashboard computes the dashboard report over every record.
func Dashboard(records []models.Account) DashboardReport {
	r := DashboardReport{
		TotalAccounts: len(records),
		TotalValue:    decimal.Zero,
		Categories:    map[string]int{},
	}
	sold := map[string]int{}
	for i := range records {
		acc := &records[i]
		switch acc.Status {
		case models.StatusAvailable:
			r.AvailableAccounts++
			r.TotalValue = r.TotalValue.Add(acc.Price)
			r.Categories[acc.Type]++
		case models.StatusSold:
			r.SoldAccounts++
			sold[acc.Name]++
		case models.StatusFailed:
			r.FailedAccounts++
		}
	}

	r.TopProducts = make([]NameCount, 0, len(sold))
	for name, n := range sold {
		r.TopProducts = append(r.TopProducts, NameCount{Name: name, Count: n})
	}
	sort.Slice(r.TopProducts, func(i, j int) bool {
		if r.TopProducts[i].Count != r.TopProducts[j].Count {
			return r.TopProducts[i].Count > r.TopProducts[j].Count
		}
		return r.TopProducts[i].Name < r.TopProducts[j].Name
	})
	if len(r.TopProducts) > topProductsLimit {
		r.TopProducts = r.TopProducts[:topProductsLimit]
	}

	r.ConversionRate = percent(r.SoldAccounts, r.TotalAccounts)
	return r
}
