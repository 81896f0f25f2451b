package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/netsig/netsig/pkg/signature/catalogsync"
)

func newDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage signature catalogs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDBExportCommand())
	cmd.AddCommand(newDBSyncCommand())

	return cmd
}

func newDBExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active signature set to a catalog file",
		Long: `Export writes every signature in the active database (the built-in set,
or the catalog loaded via --catalog-path) to a YAML or JSON file. The format
follows the file extension.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outPath == "" {
				return errors.New("--file is required")
			}
			db := databaseFromContext(cmd.Context())
			if err := db.SaveFile(outPath); err != nil {
				return err
			}
			f := newFormatter(cmd, false)
			return f.PrintSummary(fmt.Sprintf("Exported %d signatures to %s", db.Len(), outPath))
		},
	}

	cmd.Flags().StringVar(&outPath, "file", "", "Destination catalog file (.yaml or .json)")
	return cmd
}

func newDBSyncCommand() *cobra.Command {
	var (
		filePath string
		url      string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync a signature catalog from a remote or local source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filePath == "" && url == "" {
				return errors.New("either --file or --url must be provided")
			}
			if filePath != "" && url != "" {
				return errors.New("only one of --file or --url may be provided at a time")
			}
			if outPath == "" {
				return errors.New("--out is required")
			}

			svc := catalogsync.Service{
				Store: catalogsync.FileStore{Path: outPath},
				DB:    databaseFromContext(cmd.Context()),
			}
			if filePath != "" {
				svc.Source = catalogsync.FileSource{Path: filePath}
			} else {
				svc.Source = catalogsync.HTTPSource{URL: url}
			}

			sigs, err := svc.Sync(cmd.Context())
			if err != nil {
				return err
			}

			log.Info().Str("out", outPath).Int("signatures", len(sigs)).Msg("signature catalog synced")
			f := newFormatter(cmd, false)
			return f.PrintSummary(fmt.Sprintf("Synced %d signatures to %s", len(sigs), outPath))
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Load signature catalog from a local file")
	cmd.Flags().StringVar(&url, "url", "", "Download signature catalog from a remote URL")
	cmd.Flags().StringVar(&outPath, "out", "", "Destination path for the synced catalog")
	return cmd
}
