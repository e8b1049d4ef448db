package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// statement accumulates SQL text and its positional arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

// bind appends v as the next $n argument and writes its placeholder.
func (s *statement) bind(v any) {
	s.args = append(s.args, v)
	s.sql.WriteByte('$')
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

type Condition interface {
	render(s *statement)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(s *statement) {
	s.write(c.column, " = ")
	s.bind(c.value)
}

type anyCondition struct {
	column string
	array  any
}

// Any matches column against a Postgres array bound as a single argument,
// e.g. Any("id", pq.Array(ids)).
func Any(column string, array any) Condition {
	return anyCondition{column: column, array: array}
}

func (c anyCondition) render(s *statement) {
	s.write(c.column, " = ANY(")
	s.bind(c.array)
	s.write(")")
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Where adds conditions joined with AND.
func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	var s statement
	if err := b.render(&s); err != nil {
		return "", nil, err
	}
	return s.sql.String(), s.args, nil
}

func (b *SelectBuilder) render(s *statement) error {
	if len(b.columns) == 0 {
		return errors.New("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return errors.New("select table is required")
	}

	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	for i, c := range b.where {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.render(s)
	}
	return nil
}

// Exists wraps the select as SELECT EXISTS(...).
func Exists(sub *SelectBuilder) (string, []any, error) {
	var s statement
	s.write("SELECT EXISTS(")
	if err := sub.render(&s); err != nil {
		return "", nil, err
	}
	s.write(")")
	return s.sql.String(), s.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row; call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, e.g. an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("insert table is required")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert values are required")
	}

	s := statement{args: make([]any, 0, len(b.rows)*len(b.columns))}
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			s.write(", ")
		}
		s.write("(")
		for j, v := range row {
			if j > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	}
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}
	return s.sql.String(), s.args, nil
}
