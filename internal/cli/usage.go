package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage per provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}

		tracker, err := usage.New(cfg.UsageDB)
		if err != nil {
			return fmt.Errorf("opening usage db: %w", err)
		}
		defer tracker.Close()

		summaries, err := tracker.Summary(context.Background())
		if err != nil {
			return fmt.Errorf("reading usage: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Fprintln(os.Stdout, "No usage recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tMODEL\tREQUESTS\tCACHE HITS\tTOKENS")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
				s.Provider, s.Model, s.Requests, s.CacheHits, s.TotalTokens)
		}
		return w.Flush()
	},
}
