package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListQuery is a filtered, sorted, paginated list request
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Filters   map[string]interface{}
	StartDate *time.Time
	EndDate   *time.Time
	// Year overrides StartDate and EndDate with Jan 1 - Dec 31 of that year
	Year      int
	SortBy    string
	SortOrder SortOrder
}

// Normalize applies pagination defaults and caps
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.SortOrder == "" {
		q.SortOrder = SortOrderDesc
	}
}

// Offset is the number of rows skipped before the current page
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// DateWindow resolves the effective [start, end] bounds
func (q ListQuery) DateWindow() (*time.Time, *time.Time) {
	if q.Year > 0 {
		start := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(q.Year, time.December, 31, 23, 59, 59, int(time.Millisecond*999), time.UTC)
		return &start, &end
	}
	return q.StartDate, q.EndDate
}

// searchExtension contributes one more OR branch to the free-text search
type searchExtension func(ctx context.Context, pattern string) (string, []interface{})

// likePattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// applyFilters adds search, equality and date predicates to query
func applyFilters(ctx context.Context, query *gorm.DB, schema *EntitySchema, q ListQuery, ext searchExtension) *gorm.DB {
	if term := strings.TrimSpace(q.Search); term != "" {
		pattern := likePattern(term)
		conds := make([]string, 0, len(schema.SearchColumns)+1)
		args := make([]interface{}, 0, len(schema.SearchColumns)+1)
		for _, col := range schema.SearchColumns {
			conds = append(conds, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		if ext != nil {
			sql, extArgs := ext(ctx, pattern)
			conds = append(conds, sql)
			args = append(args, extArgs...)
		}
		if len(conds) > 0 {
			query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
	}

	for name, value := range q.Filters {
		f, ok := schema.Filters[name]
		if !ok {
			continue
		}
		query = query.Where(f.Column+" = ?", value)
	}

	if schema.DateColumn != "" {
		start, end := q.DateWindow()
		if start != nil {
			query = query.Where(schema.DateColumn+" >= ?", *start)
		}
		if end != nil {
			query = query.Where(schema.DateColumn+" <= ?", *end)
		}
	}

	return query
}
