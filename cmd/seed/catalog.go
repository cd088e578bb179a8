package main

import "croplife/internal/model"

// starterCatalog is the launch product line, listed in display order.
var starterCatalog = []model.ProductInput{
	{
		Title:       "EcoGrow All-Purpose Fertilizer",
		Description: "A balanced, organic fertilizer perfect for all types of plants, vegetables, and flowers. Boosts growth and enriches soil.",
		Price:       "$25.99",
		Category:    model.CategoryOther,
		Image:       "https://picsum.photos/seed/product1/600/400",
		Featured:    true,
	},
	{
		Title:       "YieldMax Corn & Grain Enhancer",
		Description: "Specially formulated for corn and grain crops to maximize yield and improve grain quality. Rich in nitrogen and potassium.",
		Price:       "$45.50",
		Category:    model.CategoryGrowthRegulators,
		Image:       "https://picsum.photos/seed/product2/600/400",
		Featured:    true,
	},
	{
		Title:       "BloomBurst Flower Food",
		Description: "Promotes vibrant colors and prolific blooms in all flowering plants. Contains essential micronutrients for stunning results.",
		Price:       "$19.99",
		Category:    model.CategoryGrowthRegulators,
		Image:       "https://picsum.photos/seed/product3/600/400",
		Featured:    true,
	},
	{
		Title:       "RootRally Starter Formula",
		Description: "A gentle formula designed to encourage strong root development in seedlings and new transplants.",
		Price:       "$22.00",
		Category:    model.CategoryGrowthRegulators,
		Image:       "https://picsum.photos/seed/product4/600/400",
	},
	{
		Title:       "GreenLawn Weed & Feed",
		Description: "Achieve a lush, green, and weed-free lawn with our dual-action formula that feeds grass while controlling common weeds.",
		Price:       "$35.75",
		Category:    model.CategoryHerbicides,
		Image:       "https://picsum.photos/seed/product5/600/400",
	},
	{
		Title:       "CitrusGro Fruit Tree Special",
		Description: "Enriched with iron and zinc, this fertilizer is perfect for citrus and other fruit trees, promoting healthy growth and abundant fruit.",
		Price:       "$29.95",
		Category:    model.CategoryOther,
		Image:       "https://picsum.photos/seed/product6/600/400",
	},
}
