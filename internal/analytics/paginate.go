package analytics

import "github.com/doorlog/doorlog/internal/event"

// Page is one slice of the full ordered timeline.
type Page struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Items      []event.Record
}

// Paginate slices the ordered event sequence into fixed-size pages. The page
// number is clamped to [1, TotalPages]: asking for a page past the end
// returns the last page, not an error. TotalPages is at least 1 even for an
// empty sequence.
func Paginate(events []event.Record, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(events)
	totalPages := 1
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Items:      events[start:end],
	}
}
