// Package listview keeps the fetched collection of one admin screen
// together with the operator's page, search and status intent, and derives
// the visible window from them.
package listview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// DefaultLimit is the page size used when none is configured
const DefaultLimit = 10

// StatusAll disables the status filter
const StatusAll = "all"

var (
	// ErrNotFound is returned by Find when the id is not in the fetched collection
	ErrNotFound = errors.New("record not found in the fetched list")
	// ErrSuperseded is returned by a fetch whose result was dropped because a newer fetch started
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// Page is one fetch result. Total is only used by server-paged screens.
type Page[T any] struct {
	Items []T
	Total int
}

// Fetcher loads the collection. offset and limit are only meaningful to
// server-paged screens; client-paged fetchers ignore them.
type Fetcher[T any] func(ctx context.Context, offset, limit int) (Page[T], error)

// Options configures a Controller
type Options[T any] struct {
	// Limit is the page size
	Limit int
	// ID returns the record id, used by Find and NoteDeleted
	ID func(T) string
	// SearchFields returns the text fields the search term is matched against
	SearchFields func(T) []string
	// Status returns the record status for the status filter
	Status func(T) string
	// Less sorts the filtered records; nil keeps fetch order
	Less func(a, b T) bool
	// ServerPaged screens let the backend slice the collection
	ServerPaged bool
	Logger      *slog.Logger
}

// State is a snapshot of the controller
type State[T any] struct {
	Items        []T
	Offset       int
	Limit        int
	Total        int
	SearchTerm   string
	StatusFilter string
	Loading      bool
	Error        string
}

// View is the derived, visible part of the collection
type View[T any] struct {
	Items  []T
	Offset int
	Limit  int
	// Total is the number of records the pagination runs over: the
	// filtered count, or the backend total when only one server page
	// was fetched.
	Total int
}

// Pagination returns the page controls for the view
func (v View[T]) Pagination() Pagination {
	return Paginate(v.Offset, v.Limit, v.Total)
}

// Controller owns the list state of one screen. It is safe for concurrent use.
type Controller[T any] struct {
	mu     sync.Mutex
	fetch  Fetcher[T]
	opts   Options[T]
	logger *slog.Logger

	items   []T
	total   int
	offset  int
	limit   int
	search  string
	status  string
	loading bool
	err     error
	// whole is set when items hold the entire collection
	whole bool

	seq    uint64
	cancel context.CancelFunc
}

// New creates a controller for one screen
func New[T any](fetch Fetcher[T], opts Options[T]) *Controller[T] {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller[T]{
		fetch:  fetch,
		opts:   opts,
		limit:  opts.Limit,
		logger: logger,
	}
}

// Fetch loads the collection. On failure the previous items stay visible
// and the error is kept in State().Error. A fetch started later supersedes
// this one: its context is cancelled and its result discarded.
//
// Server-paged screens fetch one page, unless a search or status filter is
// set: filtering one backend page would hide matches on the others, so the
// whole collection is loaded and paged locally.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	return c.load(ctx, false)
}

// FetchAll loads the whole collection, also on server-paged screens
func (c *Controller[T]) FetchAll(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Controller[T]) load(ctx context.Context, all bool) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.seq++
	seq := c.seq
	c.cancel = cancel
	c.loading = true
	whole := all || !c.opts.ServerPaged || c.filteringLocked()
	offset, limit := c.offset, c.limit
	c.mu.Unlock()
	defer cancel()

	var page Page[T]
	var err error
	if whole && c.opts.ServerPaged {
		page, err = c.fetchWhole(ctx, limit)
	} else {
		page, err = c.fetch(ctx, offset, limit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.DebugContext(ctx, "dropping superseded fetch", "seq", seq, "latest", c.seq)
		return ErrSuperseded
	}

	c.loading = false
	c.cancel = nil
	if err != nil {
		c.err = err
		c.logger.WarnContext(ctx, "fetch failed", "error", err)
		return err
	}

	c.err = nil
	c.items = page.Items
	c.whole = whole
	if whole {
		c.total = len(page.Items)
	} else {
		c.total = page.Total
	}
	return nil
}

// fetchWhole asks a server-paged backend for its total, then for everything
func (c *Controller[T]) fetchWhole(ctx context.Context, limit int) (Page[T], error) {
	page, err := c.fetch(ctx, 0, limit)
	if err != nil || page.Total <= len(page.Items) {
		return page, err
	}
	c.logger.DebugContext(ctx, "loading whole collection", "total", page.Total)
	return c.fetch(ctx, 0, page.Total)
}

func (c *Controller[T]) filteringLocked() bool {
	if strings.TrimSpace(c.search) != "" {
		return true
	}
	return c.status != "" && c.status != StatusAll
}

// SetSearchTerm updates the search term and returns to the first page
func (c *Controller[T]) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	c.offset = 0
}

// SetStatusFilter updates the status filter and returns to the first page
func (c *Controller[T]) SetStatusFilter(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.offset = 0
}

// SetLimit changes the page size and returns to the first page
func (c *Controller[T]) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limit = limit
	c.offset = 0
}

// SetOffset moves the window start. Negative values are clamped to 0.
func (c *Controller[T]) SetOffset(offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = max(offset, 0)
}

// GoToPage moves to a 1-based page. Out of range pages are clamped.
// Server-paged screens must Fetch afterwards.
func (c *Controller[T]) GoToPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.paginationLocked()
	page = min(page, max(p.TotalPages, 1))
	page = max(page, 1)
	c.offset = (page - 1) * c.limit
}

// NextPage advances one page unless already on the last one
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paginationLocked().NextDisabled {
		return false
	}
	c.offset += c.limit
	return true
}

// PrevPage goes back one page unless already on the first one
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.offset == 0 {
		return false
	}
	c.offset = max(c.offset-c.limit, 0)
	return true
}

// Find returns the fetched record with the given id
func (c *Controller[T]) Find(id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if c.opts.ID == nil {
		return zero, ErrNotFound
	}
	for _, item := range c.items {
		if c.opts.ID(item) == id {
			return item, nil
		}
	}
	return zero, ErrNotFound
}

// Locate moves the window to the page that shows id under the current
// search, filter and sort, and returns that 1-based page
func (c *Controller[T]) Locate(id string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.ID == nil {
		return 0, ErrNotFound
	}

	for i, item := range c.deriveAllLocked() {
		if c.opts.ID(item) == id {
			if c.whole {
				c.offset = i / c.limit * c.limit
			}
			return c.offset/c.limit + 1, nil
		}
	}
	return 0, ErrNotFound
}

// NoteDeleted resyncs after id was deleted on the backend. When id was the
// only record on a page past the first, the window steps back one page.
func (c *Controller[T]) NoteDeleted(ctx context.Context, id string) error {
	c.mu.Lock()
	window := c.deriveLocked().Items
	if len(window) == 1 && c.offset > 0 && c.opts.ID != nil && c.opts.ID(window[0]) == id {
		c.offset = max(c.offset-c.limit, 0)
	}
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// State returns a snapshot of the raw state
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State[T]{
		Items:        slices.Clone(c.items),
		Offset:       c.offset,
		Limit:        c.limit,
		Total:        c.total,
		SearchTerm:   c.search,
		StatusFilter: c.status,
		Loading:      c.loading,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

// Derive filters, sorts and slices the collection
func (c *Controller[T]) Derive() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deriveLocked()
}

// Pagination returns the page controls for the current view
func (c *Controller[T]) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paginationLocked()
}

func (c *Controller[T]) paginationLocked() Pagination {
	return c.deriveLocked().Pagination()
}

func (c *Controller[T]) deriveLocked() View[T] {
	filtered := c.deriveAllLocked()

	if !c.whole {
		return View[T]{Items: filtered, Offset: c.offset, Limit: c.limit, Total: c.total}
	}

	total := len(filtered)
	start := min(c.offset, total)
	end := min(c.offset+c.limit, total)
	return View[T]{Items: filtered[start:end], Offset: c.offset, Limit: c.limit, Total: total}
}

// deriveAllLocked filters and sorts without slicing
func (c *Controller[T]) deriveAllLocked() []T {
	filtered := make([]T, 0, len(c.items))
	term := strings.ToLower(strings.TrimSpace(c.search))
	for _, item := range c.items {
		if c.matches(item, term) {
			filtered = append(filtered, item)
		}
	}

	if c.opts.Less != nil {
		slices.SortStableFunc(filtered, func(a, b T) int {
			switch {
			case c.opts.Less(a, b):
				return -1
			case c.opts.Less(b, a):
				return 1
			default:
				return 0
			}
		})
	}
	return filtered
}

func (c *Controller[T]) matches(item T, term string) bool {
	if c.status != "" && c.status != StatusAll && c.opts.Status != nil {
		if c.opts.Status(item) != c.status {
			return false
		}
	}
	if term == "" || c.opts.SearchFields == nil {
		return true
	}
	for _, f := range c.opts.SearchFields(item) {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
