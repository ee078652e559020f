// Package catalogtest provides catalog fixtures for tests.
package catalogtest

import "github.com/ziadkadry99/solution-finder/internal/catalog"

// Retail returns a small two-category catalog:
//
//	Retail:     f1 POS, f2 Loyalty, f3 Inventory
//	Restaurant: r1 Tableside, r2 Online Ordering
func Retail() *catalog.Catalog {
	return catalog.New(
		[]string{"Retail", "Restaurant"},
		map[string][]catalog.Feature{
			"Retail": {
				{ID: "f1", Label: "POS"},
				{ID: "f2", Label: "Loyalty"},
				{ID: "f3", Label: "Inventory"},
			},
			"Restaurant": {
				{ID: "r1", Label: "Tableside"},
				{ID: "r2", Label: "Online Ordering"},
			},
		},
		[]catalog.Solution{
			{
				ID:       "counter",
				Name:     "Counter Pro",
				Category: "Retail",
				Summary:  "POS POS terminal",
				Tags:     []string{"f1", "f2"},
				Links:    &catalog.Links{Product: "https://example.com/counter"},
			},
			{
				ID:       "shelf",
				Name:     "Shelf Keeper",
				Category: "Retail",
				Summary:  "Inventory tracking for small shops",
				Tags:     []string{"f3", "missing"},
				Details:  []string{"Barcode scanning", "Supports POS export"},
			},
			{
				ID:       "bistro",
				Name:     "Bistro Tab",
				Category: "Restaurant",
				Summary:  "Pay at the table",
				Tags:     []string{"r1", "r2"},
				SpecialBlocks: []catalog.SpecialBlock{
					{Name: "Handheld", Description: "Portable pos device", Link: "https://example.com/handheld"},
				},
			},
		},
	)
}
