package domain

var Tables = []interface{}{
	// Catalog
	&Category{},
	&Tag{},
	&Product{},
	// Checkout
	&Order{},
	// System
	&SiteSettings{},
}
