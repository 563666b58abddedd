package listview

// maxPlainPages is the page count up to which every page number is shown
const maxPlainPages = 5

// PageLink is one entry of the page button row: a page number or a gap
type PageLink struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// Pagination describes the page controls for a view
type Pagination struct {
	Page         int
	TotalPages   int
	PrevDisabled bool
	NextDisabled bool
	Pages        []PageLink
}

// Hidden reports whether no page controls should be rendered
func (p Pagination) Hidden() bool {
	return p.TotalPages == 0
}

// Paginate computes page controls for an offset/limit window over total records.
// Prev is disabled on the first window, Next once the window reaches total.
func Paginate(offset, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset = max(offset, 0)

	p := Pagination{
		PrevDisabled: offset == 0,
		NextDisabled: offset+limit >= total,
	}
	if total <= 0 {
		return p
	}

	p.TotalPages = (total + limit - 1) / limit
	p.Page = offset/limit + 1
	p.Pages = VisiblePages(p.TotalPages, p.Page)
	return p
}

// VisiblePages returns the page buttons to show. Up to five pages are all
// listed; beyond that the first, last, current and its neighbours are shown
// with gaps in between.
func VisiblePages(totalPages, current int) []PageLink {
	if totalPages <= 0 {
		return nil
	}
	current = min(max(current, 1), totalPages)

	link := func(n int) PageLink {
		return PageLink{Number: n, Current: n == current}
	}

	if totalPages <= maxPlainPages {
		pages := make([]PageLink, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			pages = append(pages, link(n))
		}
		return pages
	}

	pages := []PageLink{link(1)}
	lo := max(2, current-1)
	hi := min(totalPages-1, current+1)
	if lo > 2 {
		pages = append(pages, PageLink{Ellipsis: true})
	}
	for n := lo; n <= hi; n++ {
		pages = append(pages, link(n))
	}
	if hi < totalPages-1 {
		pages = append(pages, PageLink{Ellipsis: true})
	}
	return append(pages, link(totalPages))
}
