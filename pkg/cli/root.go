// Package cli implements the groceryctl administration commands: schema
// migration, account management, and dev-mode token minting.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	internaldb "grocery-graph/internal/db"
)

// flagEnvVars maps persistent flag names to the environment variables that
// back them when the flag is not set on the command line.
var flagEnvVars = map[string]string{
	"db":     "GRAPH_DB_PATH",
	"secret": "JWT_SECRET",
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "groceryctl",
		Short:         "Grocery graph administration CLI",
		Long:          "Administration commands for the grocery graph service: migrations, accounts, and dev tokens.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Precedence: flag > env > default.
			applyEnvFallback(cmd.Flags())
			applyEnvFallback(cmd.InheritedFlags())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "grocery_graph.sqlite", "Path to the SQLite graph file")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newTokenCmd())
	return rootCmd
}

func applyEnvFallback(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		env, ok := flagEnvVars[f.Name]
		if !ok {
			return
		}
		if v := os.Getenv(env); v != "" {
			_ = flags.Set(f.Name, v)
		}
	})
}

// openStore opens the write/read pool pair and runs migrations so every
// command sees a current schema.
func openStore(cmd *cobra.Command) (writeDB, readDB *sql.DB, cleanup func(), err error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, nil, nil, err
	}
	writeDB, readDB, err = internaldb.OpenSQLitePair(dbPath, 2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open graph store: %w", err)
	}
	cleanup = func() {
		_ = writeDB.Close()
		_ = readDB.Close()
	}
	if err := internaldb.RunMigrations(writeDB); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return writeDB, readDB, cleanup, nil
}
