package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/amielsh/centsible/pkg/config"
	"github.com/amielsh/centsible/pkg/importer"
	"github.com/amielsh/centsible/pkg/models"
	"github.com/amielsh/centsible/pkg/parser"
	"github.com/amielsh/centsible/pkg/server"
	"github.com/amielsh/centsible/pkg/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "centsible",
	Short: "Personal budgeting from bank statement exports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var importCmd = &cobra.Command{
	Use:   "import [flags] <path>...",
	Short: "Import bank statement files (CSV or XLS)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		_, st, imp, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		accountID, _ := cmd.Flags().GetString("account")
		manifestPath, _ := cmd.Flags().GetString("manifest")

		if manifestPath != "" {
			manifest, err := models.ManifestFromFile(manifestPath)
			if err != nil {
				return err
			}
			results, err := imp.ImportManifest(manifest)
			if err != nil {
				return err
			}
			printResults(results)
			return nil
		}

		var results []*importer.Result
		for _, pattern := range args {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf("no files found matching pattern %s", pattern)
			}

			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					logger.Warn("failed to stat file", "error", err, "file", match)
					continue
				}

				if info.IsDir() {
					dirResults, err := imp.ImportDirectory(match)
					if err != nil {
						logger.Warn("failed to import directory", "error", err, "dir", match)
						continue
					}
					results = append(results, dirResults...)
				} else {
					result, err := imp.ImportFile(match, accountID)
					if err != nil {
						logger.Warn("failed to import file", "error", err, "file", match)
						continue
					}
					results = append(results, result)
				}
			}
		}
		printResults(results)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import and report API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(cmd)
		cfg, st, imp, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(cfg, st, imp, logger)
		return srv.Start(cfg.ListenAddr)
	},
}

// buildApp wires the pieces every command needs: validated config, open
// store, and an importer whose categorizer carries any user rules.
func buildApp(cmd *cobra.Command, logger *log.Logger) (*config.Config, *store.Store, *importer.Importer, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	p := parser.New(logger)
	if cfg.CategoryRules != "" {
		if err := p.Categorizer().LoadRules(cfg.CategoryRules); err != nil {
			st.Close()
			return nil, nil, nil, err
		}
	}

	return cfg, st, importer.New(st, p, logger), nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "centsible",
		Level:           level,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Database path")
	rootCmd.PersistentFlags().String("rules", "", "Category rules YAML file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	importCmd.Flags().String("account", "", "Import into a specific account id instead of auto-detecting")
	importCmd.Flags().String("manifest", "", "Import statements listed in a YAML manifest")

	serveCmd.Flags().String("addr", "", "Listen address")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(billsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
