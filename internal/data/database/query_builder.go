// Package database builds parameterized listing queries over tables and views.
package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	Custom             ConditionType = "CUSTOM"
	defaultLimit                     = -1
	defaultOffset                    = -1
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery *string
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // panic prevents misuse; custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond adds a raw SQL predicate. Placeholders are numbered from $1
// relative to params and renumbered when the query is assembled.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: &rawQuery, Value: params}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    []OrderTerm
	Limit      int
	Offset     int
}

// OrderTerm is one ORDER BY column.
type OrderTerm struct {
	Column    string
	Direction string
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy appends an ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = append(o.OrderBy, OrderTerm{Column: column, Direction: direction})
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly sets the query to count only.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

// sanitizeIdentifier quotes identifiers like "column" or "table.column".
func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = sanitizeIdentifier(col)
	}
	return fmt.Sprintf("SELECT %s ", strings.Join(cols, ", "))
}

func buildPaginationAndOrderClause(options *ListQueryOptions, paramCount int, args []any) (string, []any) {
	var clause strings.Builder

	for i, term := range options.OrderBy {
		if i == 0 {
			clause.WriteString(" ORDER BY ")
		} else {
			clause.WriteString(", ")
		}
		clause.WriteString(sanitizeIdentifier(term.Column))
		if dir := strings.ToUpper(term.Direction); dir == "ASC" || dir == "DESC" {
			clause.WriteString(" " + dir)
		}
	}

	if options.Limit != defaultLimit {
		clause.WriteString(fmt.Sprintf(" LIMIT $%d", paramCount))
		args = append(args, options.Limit)
		paramCount++
	}
	if options.Offset != defaultOffset {
		clause.WriteString(fmt.Sprintf(" OFFSET $%d", paramCount))
		args = append(args, options.Offset)
	}

	return clause.String(), args
}

// BuildListQuery constructs a SQL query string and arguments from options, sanitizing identifiers.
//
// Example usage:
//
//	options := NewListQueryOptions("project_listings",
//		WithCondition(WhereCond("aluno_id", Equal, int64(7))),
//		WithOrderBy("data_submissao", "DESC"),
//	)
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	whereClause, args, nextParam := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}
	if options.CountOnly {
		return query.String(), args
	}

	tail, args := buildPaginationAndOrderClause(options, nextParam, args)
	query.WriteString(tail)
	return query.String(), args
}

func handleCustomCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.rawQuery == nil || *cond.rawQuery == "" {
		return "", nil, paramCount
	}
	params, _ := cond.Value.([]any)

	// NOTE: the raw SQL itself is NOT sanitized here.
	args := []any{}
	idxMap := make(map[int]int)
	out := placeholderRe.ReplaceAllStringFunc(*cond.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := idxMap[n]; !ok {
			idxMap[n] = paramCount
			args = append(args, params[n-1])
			paramCount++
		}
		return fmt.Sprintf("$%d", idxMap[n])
	})
	return out, args, paramCount
}

func processCondition(cond Condition, paramCount int) (string, []any, int) {
	switch cond.Type {
	case Custom:
		return handleCustomCondition(cond, paramCount)
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual, ILike:
		if cond.Field == "" {
			return "", nil, paramCount
		}
		return fmt.Sprintf("%s %s $%d", sanitizeIdentifier(cond.Field), cond.Type, paramCount),
			[]any{cond.Value}, paramCount + 1
	}
	return "", nil, paramCount
}

// buildWhereClause generates the WHERE part of the query with sanitized fields and manages parameters.
func buildWhereClause(inputConditions []Condition, startParamIndex int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := []any{}
	paramCount := startParamIndex

	for _, cond := range inputConditions {
		conditionStr, newArgs, next := processCondition(cond, paramCount)
		if conditionStr != "" {
			conditions = append(conditions, conditionStr)
			args = append(args, newArgs...)
			paramCount = next
		}
	}

	if len(conditions) == 0 {
		return "", args, paramCount
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, paramCount
}
