package utils

// Page is one entry of a pagination bar. Number 0 is an ellipsis.
type Page struct {
	Number int
	IsLink bool
}

type Pagination struct {
	Query       string // search query carried along in page links
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []Page
}

// pageWindow is the number of pages shown on each side of the current one.
const pageWindow = 2

// TotalPages returns how many pages of pageSize are needed for total items.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage keeps a requested page number inside [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// GeneratePagination builds the pagination bar: the first and last page,
// a window around the current page, and ellipses in between. It returns nil
// when everything fits on one page.
func GeneratePagination(currentPage, totalPages int) *Pagination {
	if totalPages <= 1 {
		return nil
	}

	pages := []Page{{Number: 1, IsLink: true}}
	if currentPage > pageWindow+2 {
		pages = append(pages, Page{})
	}

	start := max(2, currentPage-pageWindow)
	end := min(totalPages-1, currentPage+pageWindow)
	for i := start; i <= end; i++ {
		pages = append(pages, Page{Number: i, IsLink: true})
	}

	if currentPage < totalPages-(pageWindow+1) {
		pages = append(pages, Page{})
	}
	pages = append(pages, Page{Number: totalPages, IsLink: true})

	finalPages := make([]Page, 0, len(pages))
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if p.Number == 0 {
			finalPages = append(finalPages, p)
			continue
		}
		if seen[p.Number] {
			continue
		}
		seen[p.Number] = true
		p.IsLink = p.Number != currentPage
		finalPages = append(finalPages, p)
	}

	return &Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		Pages:       finalPages,
	}
}
