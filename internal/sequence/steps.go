package sequence

import "bookops/internal/book"

const (
	StepSeed                   = "seed"
	StepInitialRead            = "initial-read"
	StepTechnologyOutOfStock   = "technology-under-40-out-of-stock"
	StepDeleteB008             = "delete-b008-if-out-of-stock"
	StepJohnSmithPrice         = "john-smith-technology-to-35"
	StepProgrammingInStock     = "programming-over-25-in-stock"
	StepDeleteOutOfStockOrDear = "delete-programming-out-of-stock-or-over-50"
	StepRestockB005B006        = "restock-b005-b006-at-40"
	StepJaneDoeOrDatabase      = "jane-doe-or-database-30-to-60"
	StepProgrammingTo50        = "programming-in-stock-under-50-to-50"
	StepDeleteCheapTechnology  = "delete-technology-under-30-out-of-stock"
	StepRenameB010             = "rename-b010-and-discount"
	StepFinalRead              = "final-read"
	StepTrailingCheck          = "jane-doe-or-database-strictly-30-to-60"
)

const (
	TitleInitial         = "Initial documents"
	TitleProgramming     = "Programming books price > 25 and in stock, sorted by price desc"
	TitleJaneDoeDatabase = "Books where author is Jane Doe OR category is Database, price between $30 and $60"
	TitleFinal           = "Final documents after operations"
	TitleTrailingCheck   = "Books where author is Jane Doe OR category is Database, price strictly between $30 and $60"
)

// Default returns the record mutation sequence, in execution order.
func Default() []Step {
	return []Step{
		Reset(StepSeed, SeedBooks()),
		Find(StepInitialRead, book.All()).Reported(TitleInitial),

		UpdateMany(StepTechnologyOutOfStock,
			book.And(book.Eq(book.FieldCategory, "Technology"), book.Lt(book.FieldPrice, 40)),
			book.Set(book.FieldInStock, false)),

		DeleteOne(StepDeleteB008,
			book.And(book.Eq(book.FieldBookID, "B008"), book.Eq(book.FieldInStock, false))),

		UpdateMany(StepJohnSmithPrice,
			book.And(
				book.Eq(book.FieldAuthor, "John Smith"),
				book.Eq(book.FieldCategory, "Technology"),
				book.Gt(book.FieldPrice, 20),
				book.Eq(book.FieldInStock, true),
			),
			book.Set(book.FieldPrice, 35)),

		Find(StepProgrammingInStock,
			book.And(
				book.Eq(book.FieldCategory, "Programming"),
				book.Gt(book.FieldPrice, 25),
				book.Eq(book.FieldInStock, true),
			),
			book.Desc(book.FieldPrice)).Reported(TitleProgramming),

		DeleteMany(StepDeleteOutOfStockOrDear,
			book.Or(
				book.And(book.Eq(book.FieldCategory, "Programming"), book.Eq(book.FieldInStock, false)),
				book.Gt(book.FieldPrice, 50),
			)),

		UpdateMany(StepRestockB005B006,
			book.In(book.FieldBookID, "B005", "B006"),
			book.Set(book.FieldPrice, 40).Set(book.FieldInStock, true)),

		Find(StepJaneDoeOrDatabase,
			book.And(
				book.Or(book.Eq(book.FieldAuthor, "Jane Doe"), book.Eq(book.FieldCategory, "Database")),
				book.Between(book.FieldPrice, 30, 60),
			)).Reported(TitleJaneDoeDatabase),

		UpdateMany(StepProgrammingTo50,
			book.And(
				book.Eq(book.FieldCategory, "Programming"),
				book.Eq(book.FieldInStock, true),
				book.Lt(book.FieldPrice, 50),
			),
			book.Set(book.FieldPrice, 50)),

		DeleteMany(StepDeleteCheapTechnology,
			book.And(
				book.Eq(book.FieldCategory, "Technology"),
				book.Lt(book.FieldPrice, 30),
				book.Eq(book.FieldInStock, false),
			)),

		// B010 is gone after StepDeleteOutOfStockOrDear, so this matches nothing on the default seed.
		UpdateOne(StepRenameB010,
			book.Eq(book.FieldBookID, "B010"),
			book.Set(book.FieldTitle, "AI Revolution").Multiply(book.FieldPrice, 0.9)),

		Find(StepFinalRead, book.All()).Reported(TitleFinal),
	}
}

// WithTrailingCheck appends a read of the Jane Doe / Database records with exclusive price bounds.
func WithTrailingCheck(steps []Step) []Step {
	check := Find(StepTrailingCheck,
		book.And(
			book.Or(book.Eq(book.FieldAuthor, "Jane Doe"), book.Eq(book.FieldCategory, "Database")),
			book.And(book.Gt(book.FieldPrice, 30), book.Lt(book.FieldPrice, 60)),
		)).Reported(TitleTrailingCheck)

	return append(append(make([]Step, 0, len(steps)+1), steps...), check)
}

// Until returns the steps up to and including the named one.
func Until(steps []Step, name string) ([]Step, bool) {
	for i, s := range steps {
		if s.Name == name {
			return steps[:i+1], true
		}
	}
	return nil, false
}
