package domain

import "github.com/shopspring/decimal"

// SampleCatalog is the dataset written to the remote catalog by a full reset.
//
// Products carry no id: the remote assigns one on insert.
func SampleCatalog() []Product {
	return []Product{
		sample("Sony WH-1000XM5", "Industry-leading noise canceling headphones with Auto NC Optimizer",
			"85000", CategoryElectronics, "https://m.media-amazon.com/images/I/51SKmu2G9FL._AC_SL1000_.jpg", 4.8, 15),
		sample("Samsung Galaxy S24 Ultra", "AI-powered smartphone with 200MP camera and S Pen",
			"450000", CategoryElectronics, "https://m.media-amazon.com/images/I/71OptuZh81L._AC_SX679_.jpg", 4.9, 10),
		sample("Atlas Chooty Pen Blue (Box)", "Box of 20 Atlas Chooty pens, smooth writing for students",
			"800", CategoryStationery, "https://m.media-amazon.com/images/I/61Nl-eJ0XlL._AC_SX679_.jpg", 4.5, 100),
		sample("Munchee Super Cream Cracker 490g", "The favorite biscuit of Sri Lanka, perfect with tea",
			"450", CategoryGroceries, "https://m.media-amazon.com/images/I/81+3fL8uPGL._AC_SX679_.jpg", 4.7, 50),
		sample("Men's Batik Shirt", "Traditional Sri Lankan Batik shirt, pure cotton, casual wear",
			"4500", CategoryFashion, "https://m.media-amazon.com/images/I/61F9dH8u7GL._AC_UX569_.jpg", 4.3, 25),
		sample("LG 43-inch 4K Smart TV", "Ultra HD LED Smart TV with webOS and Magic Remote",
			"125000", CategoryElectronics, "https://m.media-amazon.com/images/I/91t9pI+q+AL._AC_SX466_.jpg", 4.6, 8),
		sample("Fresh Banana 1kg", "Organic fresh bananas",
			"250", CategoryFruits, "https://m.media-amazon.com/images/I/51ebZJ+DR4L._AC_SX679_.jpg", 4.8, 50),
		sample("Red Apple", "Fresh red apples imported",
			"120", CategoryFruits, "https://m.media-amazon.com/images/I/71TwXw2L+aL._AC_SX679_.jpg", 4.9, 30),
		sample("Bell Pepper", "Fresh green and red bell peppers",
			"300", CategoryVegetables, "https://m.media-amazon.com/images/I/611wByv+T+L._AC_SX679_.jpg", 4.5, 20),
		sample("Fresh Milk 1L", "Highland Fresh Milk",
			"450", CategoryMilkAndEgg, "https://m.media-amazon.com/images/I/81xD+-F+1bL._AC_SX679_.jpg", 4.7, 50),
		sample("Orange Juice", "Freshly squeezed orange juice",
			"600", CategoryBeverages, "https://m.media-amazon.com/images/I/71mXkF+e6+L._AC_SX679_.jpg", 4.6, 15),
		sample("Surf Excel 1kg", "Washing powder for laundry",
			"850", CategoryLaundry, "https://m.media-amazon.com/images/I/715w+7gE25L._AC_SX679_.jpg", 4.8, 40),
		sample("Farm Eggs (10 Pack)", "Fresh brown eggs",
			"650", CategoryMilkAndEgg, "https://m.media-amazon.com/images/I/81a+s+9F+JL._AC_SX679_.jpg", 4.5, 60),
	}
}

func sample(
	name, desc, price string, c Category, img string, rating float64, stock int,
) Product {
	return Product{
		Name:        name,
		Description: desc,
		Price:       decimal.RequireFromString(price),
		Category:    c,
		ImageURL:    img,
		Rating:      rating,
		Stock:       stock,
	}
}
