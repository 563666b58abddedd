package listview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type area struct {
	id      string
	name    string
	pincode string
	status  string
	created time.Time
}

func areaOptions(limit int) Options[area] {
	return Options[area]{
		Limit:        limit,
		ID:           func(a area) string { return a.id },
		SearchFields: func(a area) []string { return []string{a.name, a.pincode} },
		Status:       func(a area) string { return a.status },
	}
}

func makeAreas(n int) []area {
	out := make([]area, n)
	for i := range out {
		out[i] = area{
			id:      strconv.Itoa(i + 1),
			name:    fmt.Sprintf("Area %d", i+1),
			pincode: strconv.Itoa(560000 + i),
			status:  "active",
		}
	}
	return out
}

func staticFetcher(items []area) Fetcher[area] {
	return func(ctx context.Context, offset, limit int) (Page[area], error) {
		return Page[area]{Items: items}, nil
	}
}

func ids(items []area) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.id
	}
	return out
}

func TestController_FetchAndDerive(t *testing.T) {
	c := New(staticFetcher(makeAreas(12)), areaOptions(5))
	require.NoError(t, c.Fetch(context.Background()))

	view := c.Derive()
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(view.Items))
	assert.Equal(t, 12, view.Total)

	assert.True(t, c.NextPage())
	assert.True(t, c.NextPage())
	view = c.Derive()
	assert.Equal(t, []string{"11", "12"}, ids(view.Items))
	assert.False(t, c.NextPage(), "next must stop at the last page")

	p := c.Pagination()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.NextDisabled)
	assert.False(t, p.PrevDisabled)

	assert.True(t, c.PrevPage())
	assert.Equal(t, 5, c.State().Offset)
}

func TestController_WindowInvariant(t *testing.T) {
	for total := 0; total <= 13; total++ {
		items := makeAreas(total)
		for limit := 1; limit <= 6; limit++ {
			for offset := 0; offset <= total+limit; offset++ {
				c := New(staticFetcher(items), areaOptions(limit))
				require.NoError(t, c.Fetch(context.Background()))
				c.SetOffset(offset)

				view := c.Derive()
				end := min(offset+limit, total)
				var want []area
				if offset < end {
					want = items[offset:end]
				}
				assert.Equal(t, ids(want), ids(view.Items), "total=%d limit=%d offset=%d", total, limit, offset)

				p := view.Pagination()
				assert.Equal(t, offset == 0, p.PrevDisabled, "prev total=%d limit=%d offset=%d", total, limit, offset)
				assert.Equal(t, offset+limit >= total, p.NextDisabled, "next total=%d limit=%d offset=%d", total, limit, offset)
			}
		}
	}
}

func TestController_SearchAndStatus(t *testing.T) {
	items := []area{
		{id: "1", name: "Indiranagar", pincode: "560038", status: "active"},
		{id: "2", name: "Koramangala", pincode: "560034", status: "inactive"},
		{id: "3", name: "Whitefield", pincode: "560066", status: "active"},
		{id: "4", name: "Jayanagar", pincode: "560041", status: "active"},
	}
	c := New(staticFetcher(items), areaOptions(2))
	require.NoError(t, c.Fetch(context.Background()))

	c.SetOffset(2)
	c.SetSearchTerm("NAGAR")
	assert.Equal(t, 0, c.State().Offset, "search resets to the first page")
	assert.Equal(t, []string{"1", "4"}, ids(c.Derive().Items))

	c.SetSearchTerm("5600")
	c.SetStatusFilter("inactive")
	assert.Equal(t, []string{"2"}, ids(c.Derive().Items))

	c.SetStatusFilter(StatusAll)
	view := c.Derive()
	assert.Equal(t, 4, view.Total)
	assert.Len(t, view.Items, 2)

	c.SetSearchTerm("nothing matches")
	view = c.Derive()
	assert.Empty(t, view.Items)
	assert.True(t, view.Pagination().Hidden())
}

func TestController_Sort(t *testing.T) {
	now := time.Now()
	items := []area{
		{id: "old", created: now.Add(-2 * time.Hour)},
		{id: "new", created: now},
		{id: "mid", created: now.Add(-time.Hour)},
	}
	opts := areaOptions(10)
	opts.Less = func(a, b area) bool { return a.created.After(b.created) }

	c := New(staticFetcher(items), opts)
	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, []string{"new", "mid", "old"}, ids(c.Derive().Items))

	// fetched order is left alone
	assert.Equal(t, []string{"old", "new", "mid"}, ids(c.State().Items))
}

func TestController_FetchErrorKeepsItems(t *testing.T) {
	fail := false
	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		if fail {
			return Page[area]{}, errors.New("backend down")
		}
		return Page[area]{Items: makeAreas(3)}, nil
	}

	c := New(fetch, areaOptions(10))
	require.NoError(t, c.Fetch(context.Background()))

	fail = true
	err := c.Fetch(context.Background())
	require.Error(t, err)

	state := c.State()
	assert.Equal(t, "backend down", state.Error)
	assert.False(t, state.Loading)
	assert.Len(t, state.Items, 3)

	fail = false
	require.NoError(t, c.Fetch(context.Background()))
	assert.Empty(t, c.State().Error)
}

func TestController_SupersededFetchIsDropped(t *testing.T) {
	var (
		mu       sync.Mutex
		calls    int
		firstCtx context.Context
	)
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n == 1 {
			firstCtx = ctx
			close(started)
			<-release
			return Page[area]{Items: []area{{id: "stale"}}}, nil
		}
		return Page[area]{Items: []area{{id: "fresh"}}}, nil
	}

	c := New(fetch, areaOptions(10))

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Fetch(context.Background())
	}()
	<-started

	require.NoError(t, c.Fetch(context.Background()))
	close(release)

	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)
	assert.Equal(t, []string{"fresh"}, ids(c.State().Items))
	assert.False(t, c.State().Loading)
}

func TestController_NoteDeletedStepsBack(t *testing.T) {
	items := makeAreas(11)
	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		return Page[area]{Items: items}, nil
	}

	c := New(fetch, areaOptions(5))
	require.NoError(t, c.Fetch(context.Background()))
	c.GoToPage(3)
	require.Equal(t, 3, c.Pagination().Page)
	require.Equal(t, []string{"11"}, ids(c.Derive().Items))

	// backend deletes the only record on page 3
	items = items[:10]
	require.NoError(t, c.NoteDeleted(context.Background(), "11"))

	assert.Equal(t, 2, c.Pagination().Page)
	assert.Equal(t, []string{"6", "7", "8", "9", "10"}, ids(c.Derive().Items))
}

func TestController_NoteDeletedStaysOnPage(t *testing.T) {
	items := makeAreas(12)
	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		return Page[area]{Items: items}, nil
	}

	c := New(fetch, areaOptions(5))
	require.NoError(t, c.Fetch(context.Background()))
	c.GoToPage(3)

	items = items[:11]
	require.NoError(t, c.NoteDeleted(context.Background(), "12"))
	assert.Equal(t, 3, c.Pagination().Page)

	// the first page never steps back
	c.GoToPage(1)
	items = items[:1]
	require.NoError(t, c.Fetch(context.Background()))
	items = nil
	require.NoError(t, c.NoteDeleted(context.Background(), "1"))
	assert.Equal(t, 0, c.State().Offset)
}

func TestController_ServerPaged(t *testing.T) {
	all := makeAreas(23)
	var gotOffset, gotLimit int
	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		gotOffset, gotLimit = offset, limit
		end := min(offset+limit, len(all))
		return Page[area]{Items: all[offset:end], Total: len(all)}, nil
	}

	opts := areaOptions(10)
	opts.ServerPaged = true
	c := New(fetch, opts)

	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, 0, gotOffset)
	assert.Equal(t, 10, gotLimit)

	c.GoToPage(3)
	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, 20, gotOffset)

	view := c.Derive()
	assert.Equal(t, []string{"21", "22", "23"}, ids(view.Items))
	assert.Equal(t, 23, view.Total)

	p := view.Pagination()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.NextDisabled)
}

func TestController_ServerPagedFilterLoadsWholeCollection(t *testing.T) {
	all := makeAreas(23)
	all[20].status = "inactive"
	var calls [][2]int
	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		calls = append(calls, [2]int{offset, limit})
		end := min(offset+limit, len(all))
		return Page[area]{Items: all[offset:end], Total: len(all)}, nil
	}

	tests := []struct {
		name     string
		arrange  func(c *Controller[area])
		expected []string
		total    int
	}{
		{
			name:     "search matches a record past the first page",
			arrange:  func(c *Controller[area]) { c.SetSearchTerm("Area 17") },
			expected: []string{"17"},
			total:    1,
		},
		{
			name:     "status filter counts across pages",
			arrange:  func(c *Controller[area]) { c.SetStatusFilter("inactive") },
			expected: []string{"21"},
			total:    1,
		},
		{
			name: "filtered results are paged locally",
			arrange: func(c *Controller[area]) {
				c.SetSearchTerm("Area 1")
				c.SetOffset(10)
			},
			// Area 1, 10..19 match: eleven records, the second page holds one
			expected: []string{"19"},
			total:    11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			opts := areaOptions(10)
			opts.ServerPaged = true
			c := New(fetch, opts)
			tt.arrange(c)

			require.NoError(t, c.Fetch(context.Background()))
			assert.Equal(t, [][2]int{{0, 10}, {0, 23}}, calls)

			view := c.Derive()
			assert.Equal(t, tt.expected, ids(view.Items))
			assert.Equal(t, tt.total, view.Total)
		})
	}
}

func TestController_FetchAllOnServerPagedScreen(t *testing.T) {
	all := makeAreas(12)
	fetch := func(ctx context.Context, offset, limit int) (Page[area], error) {
		end := min(offset+limit, len(all))
		return Page[area]{Items: all[offset:end], Total: len(all)}, nil
	}
	opts := areaOptions(5)
	opts.ServerPaged = true
	c := New(fetch, opts)

	require.NoError(t, c.FetchAll(context.Background()))

	a, err := c.Find("12")
	require.NoError(t, err)
	assert.Equal(t, "Area 12", a.name)

	page, err := c.Locate("12")
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, []string{"11", "12"}, ids(c.Derive().Items))
}

func TestController_Find(t *testing.T) {
	c := New(staticFetcher(makeAreas(3)), areaOptions(10))
	require.NoError(t, c.Fetch(context.Background()))

	a, err := c.Find("2")
	require.NoError(t, err)
	assert.Equal(t, "Area 2", a.name)

	_, err = c.Find("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestController_Locate(t *testing.T) {
	c := New(staticFetcher(makeAreas(12)), areaOptions(5))
	require.NoError(t, c.Fetch(context.Background()))

	page, err := c.Locate("7")
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 5, c.State().Offset)

	c.SetSearchTerm("Area 1")
	page, err = c.Locate("12")
	require.NoError(t, err)
	assert.Equal(t, 1, page, "search narrows the list to 1, 10, 11, 12")

	_, err = c.Locate("2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestController_GoToPageClamps(t *testing.T) {
	c := New(staticFetcher(makeAreas(12)), areaOptions(5))
	require.NoError(t, c.Fetch(context.Background()))

	c.GoToPage(99)
	assert.Equal(t, 10, c.State().Offset)

	c.GoToPage(-1)
	assert.Equal(t, 0, c.State().Offset)

	c.SetLimit(4)
	c.GoToPage(3)
	assert.Equal(t, 8, c.State().Offset)
}
