package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/subosito/gotenv"

	"github.com/amielsh/centsible/pkg/config"
	"github.com/amielsh/centsible/pkg/importer"
	"github.com/amielsh/centsible/pkg/parser"
	"github.com/amielsh/centsible/pkg/server"
	"github.com/amielsh/centsible/pkg/store"
)

func main() {
	_ = gotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "centsible",
	})

	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "Config file (default is config.yaml)")
	flag.Parse()

	cfg, err := config.Build(cfgFile, nil)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer st.Close()

	p := parser.New(logger)
	if cfg.CategoryRules != "" {
		if err := p.Categorizer().LoadRules(cfg.CategoryRules); err != nil {
			logger.Fatal("failed to load category rules", "err", err)
		}
	}

	srv := server.New(cfg, st, importer.New(st, p, logger), logger)
	logger.Info("starting server", "addr", cfg.ListenAddr)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
