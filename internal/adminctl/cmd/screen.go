package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/editsession"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/listview"
	"github.com/sorenmh/homeservices-admin/internal/models"
	"github.com/sorenmh/homeservices-admin/internal/mutation"
)

// column is one table column of a list screen
type column[T any] struct {
	header string
	value  func(T) string
}

// screen describes one entity's commands. Nil operations are not offered.
type screen[T any] struct {
	entity string
	plural string

	fetch   func(ctx context.Context, api *gateway.API, offset, limit int) (listview.Page[T], error)
	options listview.Options[T]
	// sorts maps --sort keys to orderings; defaultSort names the default one
	sorts       map[string]func(a, b T) bool
	defaultSort string
	statuses    []string

	columns []column[T]
	details func(T) [][2]string
	label   func(T) string

	create func(ctx context.Context, api *gateway.API, v T) (string, error)
	update func(ctx context.Context, api *gateway.API, id string, v T) (string, error)
	remove func(ctx context.Context, api *gateway.API, id string) (string, error)

	// fields are the json fields settable with flags on create and update
	fields      []string
	sessionOpts []editsession.Option[T]
	// prepare runs on the draft before submit, after the field flags were applied
	prepare func(cmd *cobra.Command, s *editsession.Session[T]) error
	// extraFlags registers entity specific create/update flags
	extraFlags func(cmd *cobra.Command)
}

// page adapts a typed list result to a listview page
func page[T any](res gateway.Result[[]T], err error) (listview.Page[T], error) {
	if err != nil {
		return listview.Page[T]{}, err
	}
	if !res.Success {
		return listview.Page[T]{}, res.Err()
	}
	p := listview.Page[T]{Items: res.Payload, Total: len(res.Payload)}
	if res.HasTotal {
		p.Total = res.Total
	}
	return p, nil
}

type listFlags struct {
	search string
	status string
	sort   string
	page   int
	limit  int
}

func (s *screen[T]) addListFlags(cmd *cobra.Command, lf *listFlags) {
	cmd.Flags().StringVarP(&lf.search, "search", "s", "", "case-insensitive search term")
	if s.options.Status != nil {
		cmd.Flags().StringVar(&lf.status, "status", listview.StatusAll, "status filter ("+strings.Join(append([]string{listview.StatusAll}, s.statuses...), ", ")+")")
	}
	if len(s.sorts) > 0 {
		cmd.Flags().StringVar(&lf.sort, "sort", s.defaultSort, "sort order ("+strings.Join(sortedKeys(s.sorts), ", ")+")")
	}
	cmd.Flags().IntVarP(&lf.page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&lf.limit, "limit", "l", 0, "rows per page (default from config)")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// controller builds the list controller for one invocation
func (s *screen[T]) controller(a *app, lf listFlags) (*listview.Controller[T], error) {
	api, err := a.backend()
	if err != nil {
		return nil, err
	}

	opts := s.options
	opts.Logger = a.logger.With("component", "listview", "entity", s.entity)
	opts.Limit = a.settings.PageSize
	if lf.limit > 0 {
		opts.Limit = lf.limit
	}
	sortKey := lf.sort
	if sortKey == "" {
		sortKey = s.defaultSort
	}
	if sortKey != "" {
		less, ok := s.sorts[sortKey]
		if !ok {
			return nil, fmt.Errorf("unknown sort %q, use one of: %s", sortKey, strings.Join(sortedKeys(s.sorts), ", "))
		}
		opts.Less = less
	}

	ctl := listview.New(func(ctx context.Context, offset, limit int) (listview.Page[T], error) {
		return s.fetch(ctx, api, offset, limit)
	}, opts)
	ctl.SetSearchTerm(lf.search)
	if lf.status != "" {
		ctl.SetStatusFilter(lf.status)
	}
	return ctl, nil
}

// load fetches the collection and moves to the requested page
func (s *screen[T]) load(ctx context.Context, a *app, ctl *listview.Controller[T], pageNum int) error {
	pageNum = max(pageNum, 1)
	if s.options.ServerPaged {
		ctl.SetOffset((pageNum - 1) * ctl.State().Limit)
	}
	if err := ctl.Fetch(ctx); err != nil {
		return s.loadError(a, err)
	}
	if s.options.ServerPaged {
		if view := ctl.Derive(); len(view.Items) == 0 && pageNum > 1 && view.Total > 0 {
			ctl.GoToPage(pageNum)
			if err := ctl.Fetch(ctx); err != nil {
				return s.loadError(a, err)
			}
		}
		return nil
	}
	ctl.GoToPage(pageNum)
	return nil
}

func (s *screen[T]) loadError(a *app, err error) error {
	a.printer.Error(gateway.UserMessage(err, "Failed to load "+s.plural))
	a.logger.Debug("fetch failed", "entity", s.entity, "error", err)
	return ErrReported
}

// listResult is the structured form of a list page
type listResult[T any] struct {
	Items  []T `json:"items" yaml:"items"`
	Page   int `json:"page" yaml:"page"`
	Pages  int `json:"pages" yaml:"pages"`
	Offset int `json:"offset" yaml:"offset"`
	Limit  int `json:"limit" yaml:"limit"`
	Total  int `json:"total" yaml:"total"`
}

func (s *screen[T]) render(a *app, ctl *listview.Controller[T]) error {
	view := ctl.Derive()
	pg := view.Pagination()

	if a.printer.Structured() {
		items := view.Items
		if items == nil {
			items = []T{}
		}
		return a.printer.Print(listResult[T]{
			Items:  items,
			Page:   pg.Page,
			Pages:  pg.TotalPages,
			Offset: view.Offset,
			Limit:  view.Limit,
			Total:  view.Total,
		}, nil)
	}

	if len(view.Items) == 0 {
		a.printer.Info("No " + s.plural + " found")
		return nil
	}

	headers := make([]string, len(s.columns))
	for i, c := range s.columns {
		headers[i] = c.header
	}
	rows := make([][]string, 0, len(view.Items))
	for _, item := range view.Items {
		row := make([]string, len(s.columns))
		for i, c := range s.columns {
			row[i] = c.value(item)
		}
		rows = append(rows, row)
	}
	a.printer.Table(headers, rows)
	a.printer.Pagination(pg, view.Total)
	return nil
}

func (s *screen[T]) listCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + s.plural,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := s.controller(a, lf)
			if err != nil {
				return err
			}
			if err := s.load(cmd.Context(), a, ctl, lf.page); err != nil {
				return err
			}
			return s.render(a, ctl)
		},
	}
	s.addListFlags(cmd, &lf)
	return cmd
}

// find fetches the collection and returns the record with id
func (s *screen[T]) find(ctx context.Context, a *app, id string) (T, *listview.Controller[T], error) {
	var zero T
	ctl, err := s.controller(a, listFlags{})
	if err != nil {
		return zero, nil, err
	}
	if err := ctl.FetchAll(ctx); err != nil {
		return zero, nil, s.loadError(a, err)
	}
	item, err := ctl.Find(id)
	if errors.Is(err, listview.ErrNotFound) {
		return zero, nil, fmt.Errorf("%s %s not found", s.entity, id)
	}
	return item, ctl, err
}

func (s *screen[T]) showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show " + s.entity + " details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, _, err := s.find(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if a.printer.Structured() {
				return a.printer.Print(item, nil)
			}
			a.printer.Info(strings.ToUpper(s.entity[:1]) + s.entity[1:] + ": " + s.label(item) + "\n")
			a.printer.Fields(s.details(item))
			return nil
		},
	}
}

// fieldFlag maps a json field to its flag name: productionUrl -> production-url
func fieldFlag(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *screen[T]) addFieldFlags(cmd *cobra.Command) {
	for _, f := range s.fields {
		cmd.Flags().String(fieldFlag(f), "", "set "+f)
	}
	if s.extraFlags != nil {
		s.extraFlags(cmd)
	}
}

// applyFlags copies changed field flags into the draft
func (s *screen[T]) applyFlags(cmd *cobra.Command, sess *editsession.Session[T]) error {
	for _, f := range s.fields {
		flag := cmd.Flags().Lookup(fieldFlag(f))
		if flag == nil || !flag.Changed {
			continue
		}
		if err := sess.SetField(f, flag.Value.String()); err != nil {
			return err
		}
	}
	if s.prepare != nil {
		return s.prepare(cmd, sess)
	}
	return nil
}

func (s *screen[T]) newSession() *editsession.Session[T] {
	return editsession.New(s.sessionOpts...)
}

func (s *screen[T]) createCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a " + s.entity,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.backend()
			if err != nil {
				return err
			}

			var zero T
			sess := s.newSession()
			sess.Start("", zero)
			if err := s.applyFlags(cmd, sess); err != nil {
				return err
			}

			out := a.mutations().Create(cmd.Context(), mutation.Op{
				Entity:   s.entity,
				Validate: sess.Validate,
				Call: func(ctx context.Context) (string, error) {
					return s.create(ctx, api, sess.Draft())
				},
			})
			if out.OK {
				sess.Close()
			}
			return finish(out)
		},
	}
	s.addFieldFlags(cmd)
	return cmd
}

func (s *screen[T]) updateCmd(a *app) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:     "update <id>",
		Aliases: []string{"edit"},
		Short:   "Update a " + s.entity,
		Long: "Update a " + s.entity + ".\n\n" +
			"Fields are taken from flags, or asked one by one with --interactive.\n" +
			"At a prompt, Enter keeps the shown value and \"-\" clears it.\n" +
			"The record is always submitted once it validates, changed or not.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			item, _, err := s.find(ctx, a, id)
			if err != nil {
				return err
			}
			api, err := a.backend()
			if err != nil {
				return err
			}

			sess := s.newSession()
			sess.Start(id, item)
			if err := s.applyFlags(cmd, sess); err != nil {
				return err
			}

			if interactive {
				save, err := s.editInteractively(ctx, a, sess)
				if err != nil {
					return err
				}
				if !save {
					a.printer.Info("Changes discarded")
					return nil
				}
			}

			out := a.mutations().Update(ctx, mutation.Op{
				Entity:   s.entity,
				ID:       id,
				Validate: sess.Validate,
				Call: func(ctx context.Context) (string, error) {
					return s.update(ctx, api, id, sess.Draft())
				},
			})
			if out.OK {
				sess.Close()
			}
			return finish(out)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "edit every field at a prompt")
	s.addFieldFlags(cmd)
	return cmd
}

// editInteractively walks the editable fields until the draft validates and
// the operator saves, or the draft is discarded
func (s *screen[T]) editInteractively(ctx context.Context, a *app, sess *editsession.Session[T]) (bool, error) {
	for {
		for _, f := range s.fields {
			for {
				current, err := sess.Value(f)
				if err != nil {
					return false, err
				}
				raw, err := a.prompter.Line(f, current)
				if err != nil {
					return false, err
				}
				if err := sess.SetField(f, raw); err != nil {
					return false, err
				}
				msg := sess.FieldError(f)
				if msg == "" {
					break
				}
				a.printer.Warn(f + " " + msg)
			}
		}

		if !sess.ValidateAll() {
			for _, e := range sortedKeys(sess.FieldErrors()) {
				a.printer.Warn(e + " " + sess.FieldError(e))
			}
			continue
		}

		save, err := a.confirmer().Confirm(ctx, "Save changes?")
		if err != nil {
			return false, err
		}
		if save {
			return true, nil
		}
		closed, err := sess.Cancel(ctx, a.confirmer())
		if err != nil {
			return false, err
		}
		if closed {
			return false, nil
		}
	}
}

func (s *screen[T]) deleteCmd(a *app) *cobra.Command {
	var showList bool
	var lf listFlags
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a " + s.entity,
		Long: "Delete a " + s.entity + " after confirmation.\n\n" +
			"With --list the page the record was on is shown afterwards; when it\n" +
			"was the only record on that page the previous page is shown instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			api, err := a.backend()
			if err != nil {
				return err
			}
			ctl, err := s.controller(a, lf)
			if err != nil {
				return err
			}

			prompt := fmt.Sprintf("Delete %s %s?", s.entity, id)
			if showList {
				if err := s.load(ctx, a, ctl, lf.page); err != nil {
					return err
				}
				if item, err := ctl.Find(id); err == nil {
					prompt = fmt.Sprintf("Delete %s %q (%s)?", s.entity, s.label(item), id)
				}
				if _, err := ctl.Locate(id); err != nil {
					a.logger.Debug("record not on the listed page", "entity", s.entity, "id", id)
				}
			}

			out := a.mutations().Delete(ctx, mutation.Op{
				Entity:  s.entity,
				ID:      id,
				Confirm: prompt,
				Call: func(ctx context.Context) (string, error) {
					return s.remove(ctx, api, id)
				},
				After: func(ctx context.Context) error {
					if !showList {
						return nil
					}
					return ctl.NoteDeleted(ctx, id)
				},
			})
			if out.Cancelled {
				a.printer.Info("Cancelled")
				return nil
			}
			if err := finish(out); err != nil {
				return err
			}
			if showList {
				a.printer.Info("")
				return s.render(a, ctl)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showList, "list", false, "show the list page afterwards")
	s.addListFlags(cmd, &lf)
	return cmd
}

// command builds the entity's command group with the operations it supports
func (s *screen[T]) command(a *app, use, short string, extra ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.AddCommand(s.listCmd(a))
	if s.details != nil {
		cmd.AddCommand(s.showCmd(a))
	}
	if s.create != nil {
		cmd.AddCommand(s.createCmd(a))
	}
	if s.update != nil {
		cmd.AddCommand(s.updateCmd(a))
	}
	if s.remove != nil {
		cmd.AddCommand(s.deleteCmd(a))
	}
	cmd.AddCommand(extra...)
	return cmd
}

// statusOf reads the status field of records that have one
func statusOf[T any](get func(T) string) func(T) string {
	return func(v T) string {
		if st := get(v); st != "" {
			return st
		}
		return models.StatusActive
	}
}
