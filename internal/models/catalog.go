package models

// ProductCategory is static marketing content for the public site and the
// quote form's category selector.
type ProductCategory struct {
	ID          string
	Title       string
	Description string
	Products    []string
}

// Categories lists the export categories the business advertises.
func Categories() []ProductCategory {
	return []ProductCategory{
		{
			ID:          "agriculture",
			Title:       "Food & Agriculture",
			Description: "Fresh produce, grains, spices, and processed food products for global markets.",
			Products:    []string{"Basmati Rice & Premium Grains", "Organic Spices & Herbs", "Fresh Fruits & Vegetables", "Pulses & Lentils", "Tea & Coffee", "Nuts & Dry Fruits"},
		},
		{
			ID:          "textiles",
			Title:       "Textiles & Apparel",
			Description: "Quality fabrics, garments, and home textiles from trusted manufacturers.",
			Products:    []string{"Cotton Fabrics & Garments", "Home Textiles & Linens", "Traditional Apparel", "Technical Textiles"},
		},
		{
			ID:          "electronics",
			Title:       "Electronics & Components",
			Description: "Consumer electronics, components, and accessories meeting international standards.",
			Products:    []string{"Consumer Electronics", "Electronic Components", "Cables & Accessories"},
		},
		{
			ID:          "handicrafts",
			Title:       "Handicrafts & Home Decor",
			Description: "Artisanal crafts, decor items, and handmade products with authentic character.",
			Products:    []string{"Handmade Decor", "Wooden Crafts", "Metal Artware"},
		},
		{
			ID:          "industrial",
			Title:       "Industrial Equipment",
			Description: "Machinery, tools, and industrial supplies for manufacturing operations.",
			Products:    []string{"Machine Tools", "Pumps & Valves", "Industrial Spares"},
		},
		{
			ID:          "chemicals",
			Title:       "Chemicals & Materials",
			Description: "Industrial chemicals, raw materials, and specialty compounds.",
			Products:    []string{"Industrial Chemicals", "Dyes & Pigments", "Specialty Compounds"},
		},
	}
}

// CategoryTitles returns the quote-form select options, including the
// catch-all entry the form offers.
func CategoryTitles() []string {
	cats := Categories()
	titles := make([]string, 0, len(cats)+1)
	for _, c := range cats {
		titles = append(titles, c.Title)
	}
	return append(titles, "Other (Please specify in description)")
}
