package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netsig/netsig/cmd/netsig/internal/bind"
	"github.com/netsig/netsig/pkg/detect"
)

// matchJSON is the serialized form of one detection match.
type matchJSON struct {
	Name        string   `json:"name"`
	Port        int      `json:"port"`
	Protocol    string   `json:"protocol"`
	Description string   `json:"description,omitempty"`
	Confidence  float64  `json:"confidence"`
	Reasons     []string `json:"reasons"`
}

// resultJSON is the serialized form of one detection result.
type resultJSON struct {
	Port         int         `json:"port"`
	Protocol     string      `json:"protocol"`
	DataSupplied bool        `json:"data_supplied"`
	Matches      []matchJSON `json:"matches"`
	BestMatch    string      `json:"best_match,omitempty"`
	Confidence   float64     `json:"confidence"`
}

func resultToJSON(res *detect.Result) resultJSON {
	out := resultJSON{
		Port:         res.Port(),
		Protocol:     res.Protocol(),
		DataSupplied: res.DataSupplied(),
		Matches:      []matchJSON{},
		Confidence:   res.Confidence(),
	}
	for _, m := range res.Matches() {
		out.Matches = append(out.Matches, matchJSON{
			Name:        m.Signature.Name(),
			Port:        m.Signature.Port(),
			Protocol:    m.Signature.Protocol(),
			Description: m.Signature.Description(),
			Confidence:  m.Confidence,
			Reasons:     m.Reasons,
		})
	}
	if best := res.Best(); best != nil {
		out.BestMatch = best.Signature.Name()
	}
	return out
}

func newDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the service behind a port, optionally using captured payload bytes",
		Example: `  # Detect service by port
  netsig detect --port 80

  # Detect service by port and protocol
  netsig detect --port 53 --protocol udp

  # Pattern-test a captured banner
  netsig detect --port 8080 --data 'HTTP/1.1 200 OK'

  # Pattern-test bytes captured to a file
  netsig detect --port 22 --data-file banner.bin --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := bind.BindDetectOptions(cmd)
			if err != nil {
				return err
			}

			db := databaseFromContext(cmd.Context())
			cfg := configFromContext(cmd.Context())

			detector, err := detect.NewWithPolicy(db, cfg.Policy())
			if err != nil {
				return err
			}

			res, err := detector.Detect(cmd.Context(), detect.Query{
				Port:     opts.Port,
				Protocol: opts.Protocol,
				Data:     opts.Data,
			})
			if err != nil {
				return err
			}

			f := newFormatter(cmd, opts.JSON)
			if opts.JSON || (cfg != nil && cfg.Output.Format == "json") {
				return f.PrintJSON(resultToJSON(res))
			}

			best := res.Best()
			if best == nil {
				return f.PrintSummary(fmt.Sprintf("No known signature for port %d/%s",
					res.Port(), strings.ToUpper(res.Protocol())))
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Port %d/%s detected as:\n", res.Port(), strings.ToUpper(res.Protocol()))
			fmt.Fprintf(&b, "  Service: %s\n", best.Signature.Name())
			if best.Signature.Description() != "" {
				fmt.Fprintf(&b, "  Description: %s\n", best.Signature.Description())
			}
			fmt.Fprintf(&b, "  Confidence: %.0f%%", best.Confidence*100)

			if others := res.Matches()[1:]; len(others) > 0 {
				b.WriteString("\n\nOther possible matches:")
				for _, m := range others {
					fmt.Fprintf(&b, "\n  - %s (%.0f%%)", m.Signature.Name(), m.Confidence*100)
				}
			}
			return f.PrintSummary(b.String())
		},
	}

	cmd.Flags().Int("port", 0, "Port number to detect")
	cmd.Flags().String("protocol", "tcp", "Transport protocol (tcp or udp)")
	cmd.Flags().String("data", "", "Payload bytes to pattern-test, as a string")
	cmd.Flags().String("data-file", "", "File holding captured payload bytes")
	cmd.Flags().Bool("json", false, "Output in JSON format")

	return cmd
}
