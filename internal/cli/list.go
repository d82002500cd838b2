package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/microbench/internal/bench/output"
)

func newListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available benchmarks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries := app.Provider.List()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			if len(summaries) == 0 {
				fmt.Fprintln(out, "No benchmarks registered.")
				return nil
			}

			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{s.Name, strconv.Itoa(s.Scenarios), strconv.Itoa(s.Cases), s.Description}
			}
			fmt.Fprintln(out, output.RenderTable([]string{"Benchmark", "Scenarios", "Cases", "Description"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
