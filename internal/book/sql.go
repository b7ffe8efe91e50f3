package book

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	dialectPostgres = "postgres"
	colID           = "id"
	restartIdentity = "RESTART"
)

// statementBuilder compiles filters, updates and orders into Postgres statements.
type statementBuilder struct {
	dialect goqu.DialectWrapper
	table   string
}

func newStatementBuilder(table string) statementBuilder {
	return statementBuilder{dialect: goqu.Dialect(dialectPostgres), table: table}
}

func bookColumns() []any {
	cols := make([]any, 0, len(Fields))
	for _, f := range Fields {
		cols = append(cols, string(f))
	}
	return cols
}

// filterExpression compiles f into a goqu expression. A filter matching every record compiles to nil.
func filterExpression(f Filter) (exp.Expression, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return compileFilter(f), nil
}

func compileFilter(f Filter) exp.Expression {
	switch f.Op() {
	case OpAnd, OpOr:
		if f.MatchesAll() {
			return nil
		}
		children := make([]exp.Expression, 0, len(f.Children()))
		for _, child := range f.Children() {
			if e := compileFilter(child); e != nil {
				children = append(children, e)
			}
		}
		if f.Op() == OpOr {
			return goqu.Or(children...)
		}
		return goqu.And(children...)
	}

	col := goqu.C(string(f.Field()))
	switch f.Op() {
	case OpEq:
		return col.Eq(f.Value())
	case OpNe:
		return col.Neq(f.Value())
	case OpGt:
		return col.Gt(f.Value())
	case OpGte:
		return col.Gte(f.Value())
	case OpLt:
		return col.Lt(f.Value())
	case OpLte:
		return col.Lte(f.Value())
	case OpIn:
		return col.In(f.Values()...)
	}
	return nil
}

func updateRecord(u Update) (goqu.Record, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	rec := goqu.Record{}
	for _, a := range u.Assignments() {
		switch a.Kind {
		case AssignSet:
			rec[string(a.Field)] = a.Value
		case AssignMultiply:
			rec[string(a.Field)] = goqu.L("? * ?", goqu.I(string(a.Field)), a.Value)
		}
	}
	return rec, nil
}

func bookRecord(b Book) goqu.Record {
	return goqu.Record{
		string(FieldBookID):   b.BookID,
		string(FieldTitle):    b.Title,
		string(FieldAuthor):   b.Author,
		string(FieldCategory): b.Category,
		string(FieldPrice):    b.Price,
		string(FieldInStock):  b.InStock,
	}
}

// firstMatch selects the id of the first matching row in insertion order.
func (sb statementBuilder) firstMatch(where exp.Expression) *goqu.SelectDataset {
	ds := sb.dialect.From(sb.table).Select(colID)
	if where != nil {
		ds = ds.Where(where)
	}
	return ds.Order(goqu.I(colID).Asc()).Limit(1)
}

func (sb statementBuilder) selectBooks(f Filter, order ...Order) (string, []any, error) {
	where, err := filterExpression(f)
	if err != nil {
		return "", nil, err
	}

	ds := sb.dialect.From(sb.table).Prepared(true).Select(bookColumns()...)
	if where != nil {
		ds = ds.Where(where)
	}

	orderExps := make([]exp.OrderedExpression, 0, len(order)+1)
	for _, o := range order {
		if err := o.Validate(); err != nil {
			return "", nil, err
		}
		if o.Desc {
			orderExps = append(orderExps, goqu.I(string(o.Field)).Desc())
		} else {
			orderExps = append(orderExps, goqu.I(string(o.Field)).Asc())
		}
	}
	orderExps = append(orderExps, goqu.I(colID).Asc())

	return toSQL(ds.Order(orderExps...))
}

func (sb statementBuilder) update(f Filter, u Update, single bool) (string, []any, error) {
	where, err := filterExpression(f)
	if err != nil {
		return "", nil, err
	}
	rec, err := updateRecord(u)
	if err != nil {
		return "", nil, err
	}

	ds := sb.dialect.Update(sb.table).Prepared(true).Set(rec)
	switch {
	case single:
		ds = ds.Where(goqu.I(colID).In(sb.firstMatch(where)))
	case where != nil:
		ds = ds.Where(where)
	}
	return toSQL(ds)
}

func (sb statementBuilder) delete(f Filter, single bool) (string, []any, error) {
	where, err := filterExpression(f)
	if err != nil {
		return "", nil, err
	}

	ds := sb.dialect.Delete(sb.table).Prepared(true)
	switch {
	case single:
		ds = ds.Where(goqu.I(colID).In(sb.firstMatch(where)))
	case where != nil:
		ds = ds.Where(where)
	}
	return toSQL(ds)
}

func (sb statementBuilder) insert(books []Book) (string, []any, error) {
	if len(books) == 0 {
		return "", nil, errors.Join(ErrBuildingQueryFailed, errors.New("no rows to insert"))
	}
	rows := make([]any, 0, len(books))
	for _, b := range books {
		rows = append(rows, bookRecord(b))
	}
	return toSQL(sb.dialect.Insert(sb.table).Prepared(true).Rows(rows...))
}

func (sb statementBuilder) truncate() (string, error) {
	sql, _, err := sb.dialect.Truncate(sb.table).Identity(restartIdentity).ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, nil
}

type sqlStatement interface {
	ToSQL() (string, []interface{}, error)
}

func toSQL(ds sqlStatement) (string, []any, error) {
	sql, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, fmt.Errorf("to sql: %w", err))
	}
	return sql, args, nil
}
