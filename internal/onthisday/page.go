package onthisday

import "github.com/tartampluch/birthday-insights/internal/config"

// Page is one 1-based slice of a result list.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// Paginate cuts items into pages of perPage. A page below 1 is read as 1, perPage is
// bounded to [1, config.MaxPageSize] with config.DefaultPageSize when unset. A page past
// the end is empty.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	switch {
	case perPage < 1:
		perPage = config.DefaultPageSize
	case perPage > config.MaxPageSize:
		perPage = config.MaxPageSize
	}

	total := len(items)
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	if page > total/perPage+1 {
		return p
	}
	start := (page - 1) * perPage
	if start >= total {
		return p
	}
	end := min(start+perPage, total)
	p.Items = items[start:end]
	p.HasMore = end < total
	return p
}
