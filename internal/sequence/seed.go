package sequence

import "bookops/internal/book"

// SeedBooks returns the ten records the collection is reset to.
func SeedBooks() []book.Book {
	return []book.Book{
		{BookID: "B001", Title: "Data Science Fundamentals", Author: "John Smith", Category: "Technology", Price: 29.99, InStock: true},
		{BookID: "B002", Title: "Learning MongoDB", Author: "Jane Doe", Category: "Technology", Price: 35.99, InStock: false},
		{BookID: "B003", Title: "Web Development with JavaScript", Author: "Mark Lee", Category: "Programming", Price: 24.99, InStock: true},
		{BookID: "B004", Title: "Introduction to Python", Author: "Alice Brown", Category: "Programming", Price: 19.99, InStock: true},
		{BookID: "B005", Title: "Advanced SQL Queries", Author: "Michael White", Category: "Database", Price: 45.99, InStock: true},
		{BookID: "B006", Title: "C++ Basics", Author: "John Smith", Category: "Programming", Price: 29.99, InStock: true},
		{BookID: "B007", Title: "Machine Learning with Python", Author: "Sara Green", Category: "Technology", Price: 39.99, InStock: true},
		{BookID: "B008", Title: "Deep Learning Essentials", Author: "David Grey", Category: "Technology", Price: 59.99, InStock: false},
		{BookID: "B009", Title: "Data Structures in Java", Author: "Lucas Blue", Category: "Programming", Price: 49.99, InStock: true},
		{BookID: "B010", Title: "Artificial Intelligence", Author: "Sophia Grey", Category: "Technology", Price: 69.99, InStock: true},
	}
}
