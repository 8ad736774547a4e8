package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hunThubSpace/subscope/config"
	"github.com/hunThubSpace/subscope/store"
)

var (
	db     store.Database
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:           "subscope",
	Short:         "Track bug bounty scope: programs, domains, subdomains, urls and ips",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path := dbPath
		if path == "" {
			path = cfg.Database
		}
		db, err = store.Open(path)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		db.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logError("subscope", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database file (overrides config)")

	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(domainCmd)
	rootCmd.AddCommand(subdomainCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(ipCmd)
}
