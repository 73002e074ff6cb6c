// Package service contains the business rules sitting between HTTP handlers
// and the repositories: the post visibility policy, ownership checks and
// page-number pagination.
package service

// PageMeta describes one page of a listing. The page size is fixed by
// configuration; clients only choose the page number.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// normalizePage clamps the requested page to 1 or above.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageMeta(page, size int, total int64) PageMeta {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return PageMeta{
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
