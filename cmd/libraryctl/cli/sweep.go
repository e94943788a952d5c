package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/borrowings"
	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/spf13/cobra"
)

var sweepDryRun bool

var sweepCmd = &cobra.Command{
	Use:   "sweep-overdue",
	Short: "Mark borrowed records past their due date as overdue",
	Long: `Run one overdue sweep: every borrowing still in the borrowed state
whose due date is before today (UTC) becomes overdue.

With --dry-run, list the records that would change without writing.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "List affected borrowings without updating them")
}

type overdueStore interface {
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	PendingOverdue(ctx context.Context, today time.Time, limit int64) ([]models.Borrowing, error)
}

func runSweep(cmd *cobra.Command, args []string) error {
	db, closeDB, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	today := dashboardqueries.Today(time.Now())
	return sweepOverdue(cmd.Context(), borrowings.New(db), today, sweepDryRun, cmd.OutOrStdout())
}

func sweepOverdue(ctx context.Context, store overdueStore, today time.Time, dryRun bool, out io.Writer) error {
	if dryRun {
		pending, err := store.PendingOverdue(ctx, today, 0)
		if err != nil {
			return fmt.Errorf("list pending: %w", err)
		}
		for _, b := range pending {
			fmt.Fprintf(out, "%s\tdue %s\n", b.Name, b.DueDate.Format("2006-01-02"))
		}
		fmt.Fprintf(out, "%d borrowing(s) would be marked overdue\n", len(pending))
		return nil
	}

	n, err := store.MarkOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("mark overdue: %w", err)
	}
	fmt.Fprintf(out, "%d borrowing(s) marked overdue\n", n)
	return nil
}
