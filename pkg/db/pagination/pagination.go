package pagination

// Pagination is a page/limit request. Page is 1-based.
type Pagination struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10" validate:"gte=1,lte=250"`
}

// PageInfo is the listing envelope shared by paginated endpoints.
type PageInfo struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// Normalize clamps page and limit to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 250 {
		p.Limit = 250
	}
	return p
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// BuildPageInfo computes the envelope for a total row count.
func BuildPageInfo(total int64, p Pagination) PageInfo {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return PageInfo{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
		Limit:       p.Limit,
	}
}
