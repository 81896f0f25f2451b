// Package bind extracts and validates command flags into typed option
// structs, keeping parsing concerns out of command run functions.
package bind

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netsig/netsig/pkg/detect"
	"github.com/netsig/netsig/pkg/signature"
)

// DetectOptions holds the validated inputs for one detection query.
type DetectOptions struct {
	Port     int
	Protocol string
	Data     []byte // nil when no payload was supplied
	JSON     bool
}

// BindDetectOptions reads the detect command flags and validates them.
//
// Flags read:
//   - --port: port number to detect (required)
//   - --protocol: transport protocol, tcp or udp
//   - --data: payload bytes to pattern-test, as a string
//   - --data-file: path to a file holding captured payload bytes
//   - --json: emit JSON output
//
// Returns an InvalidQueryError when the port or protocol is malformed so the
// CLI exits with the usage error code.
func BindDetectOptions(cmd *cobra.Command) (DetectOptions, error) {
	port, _ := cmd.Flags().GetInt("port")
	protocol, _ := cmd.Flags().GetString("protocol")
	data, _ := cmd.Flags().GetString("data")
	dataFile, _ := cmd.Flags().GetString("data-file")
	jsonOut, _ := cmd.Flags().GetBool("json")

	opts := DetectOptions{Port: port, JSON: jsonOut}

	if !cmd.Flags().Changed("port") {
		return opts, &detect.InvalidQueryError{Field: "port", Reason: "--port is required"}
	}
	if !signature.ValidPort(port) {
		return opts, &detect.InvalidQueryError{Field: "port", Reason: fmt.Sprintf("%d outside [0, %d]", port, signature.MaxPort)}
	}

	proto, ok := signature.NormalizeProtocol(protocol)
	if !ok {
		return opts, &detect.InvalidQueryError{Field: "protocol", Reason: fmt.Sprintf("%q is not tcp or udp", protocol)}
	}
	opts.Protocol = proto

	if data != "" && dataFile != "" {
		return opts, &detect.InvalidQueryError{Field: "data", Reason: "only one of --data or --data-file may be provided"}
	}
	switch {
	case dataFile != "":
		raw, err := os.ReadFile(dataFile)
		if err != nil {
			return opts, fmt.Errorf("read data file: %w", err)
		}
		opts.Data = raw
	case cmd.Flags().Changed("data"):
		opts.Data = []byte(data)
	}

	return opts, nil
}
