package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dalemusser/libraryhub/internal/app/features/dashboard"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dashLocale string
	dashGlyph  string
	dashOpen   string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Load the dashboard once and print it as JSON",
	Long: `Load every dashboard slice from the database and print the rendered
view. Slices that fail are reported on stderr and left empty.

With --open, print the record view URL the named tile navigates to
instead of the dashboard.

Examples:
  libraryctl dashboard
  libraryctl dashboard --locale bn
  libraryctl dashboard --open overdue_books`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashLocale, "locale", "en", "Locale for dates (en, bn, fr, de)")
	dashboardCmd.Flags().StringVar(&dashGlyph, "currency-glyph", dashboard.DefaultCurrencyGlyph, "Currency glyph for fine amounts")
	dashboardCmd.Flags().StringVar(&dashOpen, "open", "", "Print the record view URL for this tile")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	db, closeDB, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	return printDashboard(cmd.Context(), records.NewMongo(db), newLogger(),
		cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func printDashboard(ctx context.Context, store records.Store, logger *zap.Logger, out, errOut io.Writer) error {
	formats, err := dashboard.NewFormats(dashLocale, dashGlyph)
	if err != nil {
		return err
	}

	rec := &navigation.Recorder{}
	sess := dashboard.NewSession(store, rec, logger)
	defer sess.Close()

	if dashOpen != "" {
		if err := sess.OpenTile(ctx, dashOpen); err != nil {
			return err
		}
		a, ok := rec.Last()
		if !ok {
			return fmt.Errorf("tile %q opened no view", dashOpen)
		}
		u, err := a.URL()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, u)
		return nil
	}

	if err := sess.LoadAll(ctx); err != nil {
		for _, e := range dashboard.Errors(err) {
			fmt.Fprintf(errOut, "warning: %v\n", e)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sess.View(formats.ForLocale(dashLocale), ""))
}
