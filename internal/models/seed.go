package models

// SeedProducts returns the default catalog used before anything has
// ever been persisted, so the storefront is never empty on a cold
// start. The seed is not written back on read; it only becomes part
// of the persisted catalog after the first upsert.
func SeedProducts() []Product {
	return []Product{
		{
			ID:           "p1",
			Name:         "Nebula Pro Smartphone",
			Description:  "The latest in mobile technology with a 200MP camera and quantum processing chip.",
			Price:        999.99,
			Category:     CategoryElectronics,
			ImageURL:     "https://picsum.photos/seed/phone/800/600",
			SellerID:     "s1",
			Stock:        25,
			Rating:       4.8,
			ReviewsCount: 124,
		},
		{
			ID:           "p2",
			Name:         "Aether Running Shoes",
			Description:  "Ultra-lightweight mesh shoes designed for maximum energy return and speed.",
			Price:        129.50,
			Category:     CategorySports,
			ImageURL:     "https://picsum.photos/seed/shoes/800/600",
			SellerID:     "s2",
			Stock:        50,
			Rating:       4.5,
			ReviewsCount: 89,
		},
		{
			ID:           "p3",
			Name:         "Zenith Mechanical Keyboard",
			Description:  "Tactile, wireless, and beautifully RGB-lit keyboard for ultimate productivity.",
			Price:        189.00,
			Category:     CategoryElectronics,
			ImageURL:     "https://picsum.photos/seed/keyboard/800/600",
			SellerID:     "s1",
			Stock:        12,
			Rating:       4.9,
			ReviewsCount: 56,
		},
		{
			ID:           "p4",
			Name:         "Lumina Smart Bulb Set",
			Description:  "Set of 4 WiFi-controlled bulbs compatible with all voice assistants.",
			Price:        45.00,
			Category:     CategoryHome,
			ImageURL:     "https://picsum.photos/seed/light/800/600",
			SellerID:     "s3",
			Stock:        100,
			Rating:       4.2,
			ReviewsCount: 230,
		},
		{
			ID:           "p5",
			Name:         "Titan Leather Jacket",
			Description:  "Premium handcrafted leather jacket with a timeless aesthetic and rugged build.",
			Price:        350.00,
			Category:     CategoryFashion,
			ImageURL:     "https://picsum.photos/seed/jacket/800/600",
			SellerID:     "s2",
			Stock:        10,
			Rating:       4.7,
			ReviewsCount: 42,
		},
	}
}
