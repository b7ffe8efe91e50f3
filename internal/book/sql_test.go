package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementBuilder_Select(t *testing.T) {
	sb := newStatementBuilder(CollectionName)

	t.Run("filtered and sorted", func(t *testing.T) {
		query, args, err := sb.selectBooks(
			And(Eq(FieldCategory, "Programming"), Gt(FieldPrice, 25), Eq(FieldInStock, true)),
			Desc(FieldPrice),
		)
		require.NoError(t, err)

		assert.Contains(t, query, `FROM "books"`)
		assert.Contains(t, query, `"category" = $1`)
		assert.Contains(t, query, `"price" > $2`)
		assert.Contains(t, query, `"in_stock" IS TRUE`)
		assert.Contains(t, query, `ORDER BY "price" DESC, "id" ASC`)
		assert.Len(t, args, 2)
		assert.Contains(t, args, "Programming")
	})

	t.Run("match all has no where clause", func(t *testing.T) {
		query, args, err := sb.selectBooks(All())
		require.NoError(t, err)

		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, `ORDER BY "id" ASC`)
		assert.Empty(t, args)
	})

	t.Run("or with range", func(t *testing.T) {
		query, _, err := sb.selectBooks(And(
			Or(Eq(FieldAuthor, "Jane Doe"), Eq(FieldCategory, "Database")),
			Between(FieldPrice, 30, 60),
		))
		require.NoError(t, err)

		assert.Contains(t, query, " OR ")
		assert.Contains(t, query, `"price" >= `)
		assert.Contains(t, query, `"price" <= `)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, _, err := sb.selectBooks(Eq(FieldPrice, "free"))
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestStatementBuilder_Update(t *testing.T) {
	sb := newStatementBuilder(CollectionName)

	t.Run("many", func(t *testing.T) {
		query, args, err := sb.update(In(FieldBookID, "B005", "B006"), Set(FieldPrice, 40).Set(FieldInStock, true), false)
		require.NoError(t, err)

		assert.Contains(t, query, `UPDATE "books" SET`)
		assert.Contains(t, query, `"book_id" IN (`)
		assert.NotContains(t, query, "LIMIT")
		assert.Contains(t, args, "B005")
		assert.Contains(t, args, "B006")
	})

	t.Run("one with computed price", func(t *testing.T) {
		query, _, err := sb.update(Eq(FieldBookID, "B010"), Set(FieldTitle, "AI Revolution").Multiply(FieldPrice, 0.9), true)
		require.NoError(t, err)

		assert.Contains(t, query, `"price" * `)
		assert.Contains(t, query, `"id" IN (SELECT "id" FROM "books" WHERE`)
		assert.Contains(t, query, "LIMIT 1")
	})

	t.Run("invalid update", func(t *testing.T) {
		_, _, err := sb.update(All(), Set(FieldPrice, -1), false)
		assert.ErrorIs(t, err, ErrInvalidUpdate)
	})
}

func TestStatementBuilder_Delete(t *testing.T) {
	sb := newStatementBuilder(CollectionName)

	query, _, err := sb.delete(And(Eq(FieldBookID, "B008"), Eq(FieldInStock, false)), true)
	require.NoError(t, err)
	assert.Contains(t, query, `DELETE FROM "books"`)
	assert.Contains(t, query, `"in_stock" IS FALSE`)
	assert.Contains(t, query, "LIMIT 1")

	query, _, err = sb.delete(Or(And(Eq(FieldCategory, "Programming"), Eq(FieldInStock, false)), Gt(FieldPrice, 50)), false)
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
	assert.Contains(t, query, " OR ")
}

func TestStatementBuilder_InsertAndTruncate(t *testing.T) {
	sb := newStatementBuilder(CollectionName)

	query, args, err := sb.insert(fixtureBooks()[:2])
	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "books"`)
	assert.Contains(t, args, "One")

	_, _, err = sb.insert(nil)
	assert.ErrorIs(t, err, ErrBuildingQueryFailed)

	truncate, err := sb.truncate()
	require.NoError(t, err)
	assert.Equal(t, `TRUNCATE "books" RESTART IDENTITY`, truncate)
}
