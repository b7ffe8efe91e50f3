package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBook = Book{
	BookID:   "B001",
	Title:    "Data Science Fundamentals",
	Author:   "John Smith",
	Category: "Technology",
	Price:    29.99,
	InStock:  true,
}

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"all", All(), true},
		{"zero value", Filter{}, true},
		{"eq string", Eq(FieldCategory, "Technology"), true},
		{"eq string miss", Eq(FieldCategory, "Programming"), false},
		{"ne string", Ne(FieldAuthor, "Jane Doe"), true},
		{"eq bool", Eq(FieldInStock, true), true},
		{"eq bool miss", Eq(FieldInStock, false), false},
		{"lt float", Lt(FieldPrice, 40), true},
		{"lt boundary", Lt(FieldPrice, 29.99), false},
		{"lte boundary", Lte(FieldPrice, 29.99), true},
		{"gt int literal", Gt(FieldPrice, 20), true},
		{"gte boundary", Gte(FieldPrice, 29.99), true},
		{"in hit", In(FieldBookID, "B005", "B001"), true},
		{"in miss", In(FieldBookID, "B005", "B006"), false},
		{"between inclusive", Between(FieldPrice, 29.99, 60), true},
		{"between outside", Between(FieldPrice, 30, 60), false},
		{"and", And(Eq(FieldCategory, "Technology"), Lt(FieldPrice, 40)), true},
		{"and short", And(Eq(FieldCategory, "Technology"), Gt(FieldPrice, 40)), false},
		{"or", Or(Eq(FieldAuthor, "Jane Doe"), Eq(FieldCategory, "Technology")), true},
		{"or none", Or(Eq(FieldAuthor, "Jane Doe"), Eq(FieldCategory, "Database")), false},
		{
			"nested",
			And(
				Or(And(Eq(FieldCategory, "Programming"), Eq(FieldInStock, false)), Gt(FieldPrice, 50)),
				Eq(FieldBookID, "B001"),
			),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(testBook))
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f := And(
			Or(Eq(FieldAuthor, "Jane Doe"), Eq(FieldCategory, "Database")),
			Between(FieldPrice, 30, 60),
			In(FieldBookID, "B005", "B006"),
			Eq(FieldInStock, true),
		)
		assert.NoError(t, f.Validate())
	})

	invalid := map[string]Filter{
		"unknown field":      Eq(Field("isbn"), "123"),
		"wrong kind":         Eq(FieldPrice, "cheap"),
		"ordering on bool":   Gt(FieldInStock, true),
		"empty in":           In(FieldBookID),
		"in wrong kind":      In(FieldBookID, "B001", 2),
		"empty or":           Or(),
		"nested bad child":   And(Eq(FieldCategory, "Technology"), Lt(FieldCategory, 3)),
		"unknown operator":   {op: Operator("$regex"), field: FieldTitle, value: "AI"},
		"bool against float": Eq(FieldInStock, 1.0),
	}
	for name, f := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, f.Validate(), ErrInvalidFilter)
		})
	}
}

func TestFilter_Document(t *testing.T) {
	f := And(Eq(FieldCategory, "Technology"), Lt(FieldPrice, 40))
	assert.Equal(t, `{"$and":[{"category":{"$eq":"Technology"}},{"price":{"$lt":40}}]}`, f.String())

	assert.Equal(t, `{}`, All().String())
	assert.Equal(t, `{"book_id":{"$in":["B005","B006"]}}`, In(FieldBookID, "B005", "B006").String())
}

func TestSortBooks(t *testing.T) {
	books := []Book{
		{BookID: "B006", Price: 29.99},
		{BookID: "B009", Price: 49.99},
		{BookID: "B003", Price: 29.99},
		{BookID: "B004", Price: 19.99},
	}

	SortBooks(books, Desc(FieldPrice))

	require.Len(t, books, 4)
	assert.Equal(t, "B009", books[0].BookID)
	// ties keep insertion order
	assert.Equal(t, "B006", books[1].BookID)
	assert.Equal(t, "B003", books[2].BookID)
	assert.Equal(t, "B004", books[3].BookID)

	SortBooks(books, Asc(FieldBookID))
	assert.Equal(t, []string{"B003", "B004", "B006", "B009"}, ids(books))
}

func ids(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.BookID)
	}
	return out
}
