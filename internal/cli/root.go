package cli

import (
	"os"

	"github.com/fialovy/redditpersona/internal/config"
	"github.com/fialovy/redditpersona/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "redditpersona",
	Short: "Generate Character.AI definitions from Reddit activity",
	Long:  "redditpersona turns a Reddit user's public comments and the threads they replied to into a Character.AI definition document.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the zap logger for CLI commands. Debug output goes to
// stderr so stdout stays clean for the definition itself.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openDB opens the cache database for CLI commands.
func openDB(cfg *config.Config) (*store.DB, error) {
	dbPath := os.Getenv("REDDITPERSONA_DB")
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
