package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netsig/netsig/pkg/signature"
)

func newInfoCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show details for a specific signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := databaseFromContext(cmd.Context())
			sig, err := db.GetByName(args[0])
			if err != nil {
				return err
			}

			f := newFormatter(cmd, jsonOut)
			if jsonOut {
				return f.PrintJSON(signature.RecordOf(sig))
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Signature: %s\n", sig.Name())
			fmt.Fprintf(&b, "Port: %d\n", sig.Port())
			fmt.Fprintf(&b, "Protocol: %s", strings.ToUpper(sig.Protocol()))
			if sig.Description() != "" {
				fmt.Fprintf(&b, "\nDescription: %s", sig.Description())
			}
			if patterns := sig.Patterns(); len(patterns) > 0 {
				tokens := make([]string, 0, len(patterns))
				for _, p := range patterns {
					tokens = append(tokens, p.String())
				}
				fmt.Fprintf(&b, "\nPatterns: %s", strings.Join(tokens, ", "))
			}
			return f.PrintSummary(b.String())
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	return cmd
}
