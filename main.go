package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hannajonsd/component-extractor/config"
)

var (
	// Version information (set by build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	// CLI flags
	configFile string
	verbose    bool

	// Loaded before every command runs
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "component-extractor",
	Short: "Extract a React component and the code it needs into a standalone project",
	Long: `component-extractor copies a React component, page or utility out of a larger
project together with every project file it transitively imports.

Each copied source file is tree-shaken: top-level declarations and exports
that nothing in the extracted set uses are removed. The output directory gets
a package.json listing only the npm packages the extracted code imports.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Example: `  # Extract the LoginPage component of the project in the current directory
  component-extractor extract LoginPage

  # Extract from another project into a custom directory
  component-extractor extract UserProfile -p ../web -o ./user-profile

  # Preview what would be removed without writing anything
  component-extractor extract LoginPage --dry-run --diff

  # List the components a project declares
  component-extractor list -p ../web`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./"+config.FileName+" or $HOME/"+config.FileName+")")
	rootCmd.PersistentFlags().StringP("project", "p", ".", "path to the React project")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	// Bind flags to viper
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads the config file and environment, then sets up logging.
// EXTRACTOR_ variables may also come from a .env file in the working
// directory; variables already set win.
func loadSettings(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	loaded, err := config.Load(viper.GetViper(), configFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	cfg = loaded
	logger = config.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", slog.String("file", used))
	}

	return nil
}
