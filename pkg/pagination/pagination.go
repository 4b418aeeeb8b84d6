package pagination

import (
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs from controllers or services.
// The dashboard drives listing with page/limit plus optional text search and
// a single sort column.
type Params struct {
	Page   int
	Limit  int
	Query  string
	SortBy string
	Order  string
}

// Page is the listing envelope every paginated endpoint returns.
type Page[T any] struct {
	Docs  []T   `json:"docs"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Normalize returns a copy of p with page, limit and order sanitized.
func Normalize(p Params) Params {
	p.Page = NormalizePage(p.Page)
	p.Limit = NormalizeLimit(p.Limit)
	p.Order = NormalizeOrder(p.Order)
	p.Query = strings.TrimSpace(p.Query)
	return p
}

// NormalizeOrder maps anything that is not "desc" to "asc".
func NormalizeOrder(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		return "desc"
	}
	return "asc"
}

// Offset converts the page number into a row offset.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// SortColumn returns the requested sort column if it appears in allowed,
// otherwise the fallback. Guards against arbitrary ORDER BY injection.
func (p Params) SortColumn(allowed []string, fallback string) string {
	want := strings.TrimSpace(p.SortBy)
	for _, col := range allowed {
		if strings.EqualFold(col, want) {
			return col
		}
	}
	return fallback
}

// NewPage assembles the envelope and derives the page count from the total.
func NewPage[T any](docs []T, total int64, p Params) Page[T] {
	limit := NormalizeLimit(p.Limit)
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	if docs == nil {
		docs = []T{}
	}
	return Page[T]{
		Docs:  docs,
		Total: total,
		Page:  NormalizePage(p.Page),
		Pages: pages,
		Limit: limit,
	}
}
