package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netsig/netsig/pkg/signature"
)

func newListCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all known signatures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db := databaseFromContext(cmd.Context())
			sigs := db.ListAll()

			f := newFormatter(cmd, jsonOut)
			if jsonOut {
				records := make([]signature.Record, 0, len(sigs))
				for _, sig := range sigs {
					records = append(records, signature.RecordOf(sig))
				}
				return f.PrintJSON(records)
			}

			rows := make([][]string, 0, len(sigs))
			for _, sig := range sigs {
				rows = append(rows, []string{
					sig.Name(),
					strings.ToUpper(sig.Protocol()),
					strconv.Itoa(sig.Port()),
					strconv.Itoa(len(sig.Patterns())),
					sig.Description(),
				})
			}
			if err := f.PrintTable([]string{"name", "proto", "port", "patterns", "description"}, rows); err != nil {
				return err
			}
			return f.PrintSummary(fmt.Sprintf("\n%d signatures", len(sigs)))
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	return cmd
}
