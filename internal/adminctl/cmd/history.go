package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/journal"
	"github.com/sorenmh/homeservices-admin/internal/listview"
)

type historyResult struct {
	Entries []journal.Entry `json:"entries" yaml:"entries"`
	Page    int             `json:"page" yaml:"page"`
	Pages   int             `json:"pages" yaml:"pages"`
	Total   int             `json:"total" yaml:"total"`
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		entity  string
		limit   int
		pageNum int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the changes made from this machine",
		Long: `Show the local journal of create, update, delete and complete actions
sent to the backend from this machine, newest first. Failed actions are
journaled too.

Example:
  adminctl history
  adminctl history --entity plan --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openJournal()
			if err != nil {
				return fmt.Errorf("failed to open journal %s: %w", a.settings.Journal, err)
			}

			pageNum = max(pageNum, 1)
			if limit <= 0 {
				limit = a.settings.PageSize
			}
			offset := (pageNum - 1) * limit
			entries, total, err := store.List(cmd.Context(), journal.Filter{Entity: entity, Limit: limit, Offset: offset})
			if err != nil {
				return fmt.Errorf("failed to read journal: %w", err)
			}
			pg := listview.Paginate(offset, limit, total)

			if a.printer.Structured() {
				if entries == nil {
					entries = []journal.Entry{}
				}
				return a.printer.Print(historyResult{Entries: entries, Page: pg.Page, Pages: pg.TotalPages, Total: total}, nil)
			}

			if len(entries) == 0 {
				a.printer.Info("No changes recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				result := "ok"
				if !e.OK {
					result = "failed"
				}
				rows = append(rows, []string{
					output.FormatTimeAgo(e.RecordedAt),
					e.Verb,
					e.Entity,
					output.OrDash(e.EntityID),
					result,
					output.Truncate(output.OrDash(e.Message), 50),
				})
			}
			a.printer.Table([]string{"WHEN", "ACTION", "ENTITY", "ID", "RESULT", "MESSAGE"}, rows)
			a.printer.Pagination(pg, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "only show changes to this entity (e.g. plan, category)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "entries per page (default from config)")
	cmd.Flags().IntVarP(&pageNum, "page", "p", 1, "page number")
	return cmd
}
