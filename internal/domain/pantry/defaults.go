package pantry

// DefaultProducts returns the starter pantry, every product empty
func DefaultProducts() []Product {
	return []Product{
		{Name: "eggs", Unit: "pcs", Kind: KindQuantity},
		{Name: "milk", Unit: "ml", Kind: KindQuantity},
		{Name: "cottage cheese", Unit: "g", Kind: KindQuantity},
		{Name: "potatoes", Unit: "pcs", Kind: KindQuantity},
		{Name: "carrots", Unit: "pcs", Kind: KindQuantity},
		{Name: "chicken", Unit: "kg", Kind: KindQuantity},
		{Name: "beef", Unit: "kg", Kind: KindQuantity},
		{Name: "sugar", Unit: "tsp", Kind: KindAvailability},
		{Name: "tea", Unit: "bag", Kind: KindAvailability},
		{Name: "rice", Unit: "g", Kind: KindQuantity},
		{Name: "fish", Unit: "pcs", Kind: KindQuantity},
		{Name: "water", Unit: "l", Kind: KindAvailability},
	}
}
