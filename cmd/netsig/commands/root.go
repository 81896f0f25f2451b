// Package commands wires the netsig CLI: signature detection, catalog
// enumeration and catalog management on top of the detection engine.
package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/netsig/netsig/cmd/netsig/internal/format"
	"github.com/netsig/netsig/pkg/config"
	"github.com/netsig/netsig/pkg/logging"
	"github.com/netsig/netsig/pkg/signature"
)

const cliExecutable = "netsig"

type ctxKey int

const (
	configKey ctxKey = iota
	databaseKey
)

func configFromContext(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey).(*config.Config)
	return cfg
}

func databaseFromContext(ctx context.Context) *signature.Database {
	db, _ := ctx.Value(databaseKey).(*signature.Database)
	return db
}

// NewCommand constructs the top-level netsig CLI command, wiring global
// flags, configuration, logging and the shared signature database.
func NewCommand() *cobra.Command {
	var (
		configFile string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "netsig identifies network services from port and payload evidence",
		Long: `netsig identifies the service behind a port by fusing two evidence sources:
the (port, protocol) pair checked against well-known registrations, and
optional captured payload bytes tested against known signature patterns.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStandard(configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			if err := logging.Configure(cfg.Log.Level); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			db, err := signature.NewDefaultDatabase()
			if err != nil {
				return fmt.Errorf("load built-in signatures: %w", err)
			}
			if cfg.Catalog.Path != "" {
				if err := db.LoadFile(cfg.Catalog.Path); err != nil {
					return fmt.Errorf("load signature catalog: %w", err)
				}
				log.Info().Str("catalog", cfg.Catalog.Path).Int("signatures", db.Len()).Msg("signature catalog loaded")
			}

			ctx := context.WithValue(cmd.Context(), configKey, cfg)
			ctx = context.WithValue(ctx, databaseKey, db)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress summary output")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newDetectCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newDBCommand())

	return cmd
}

// newFormatter builds a Formatter from the resolved config and the per-command
// --json override.
func newFormatter(cmd *cobra.Command, jsonOverride bool) format.Formatter {
	mode := format.ModeTable
	if cfg := configFromContext(cmd.Context()); cfg != nil && cfg.Output.Format == "json" {
		mode = format.ModeJSON
	}
	if jsonOverride {
		mode = format.ModeJSON
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	return format.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, quiet, !color.NoColor)
}
