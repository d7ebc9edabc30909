package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hannajonsd/component-extractor/analyzer"
	"github.com/hannajonsd/component-extractor/config"
)

var showDiff bool

// Extract command
var extractCmd = &cobra.Command{
	Use:     "extract <component>",
	Aliases: []string{"extract-page"},
	Short:   "Extract a component and its dependencies",
	Long: `Find the files that define the component, follow their imports through the
project and copy the reachable code to the output directory. The output
directory is cleared first; it may not be the project or one of its parents.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "./extracted", "output directory")
	extractCmd.Flags().Bool("dry-run", false, "compute the extraction without writing anything")
	extractCmd.Flags().Bool("prune", true, "remove unused declarations from copied files")
	extractCmd.Flags().BoolVar(&showDiff, "diff", false, "print the lines removed from every pruned file")

	viper.BindPFlag("output", extractCmd.Flags().Lookup("output"))
	viper.BindPFlag("dry_run", extractCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("prune", extractCmd.Flags().Lookup("prune"))
}

func runExtract(cmd *cobra.Command, args []string) error {
	component := args[0]

	opts := append(cfg.ExtractorOptions(),
		analyzer.WithLogger(logger),
		analyzer.WithDiffs(showDiff))

	extractor, err := analyzer.New(cfg.Project, opts...)
	if err != nil {
		return err
	}

	result, err := extractor.Extract(component, cfg.Output)
	if errors.Is(err, analyzer.ErrComponentNotFound) {
		return fmt.Errorf("%w (run \"component-extractor list\" to see the available components)", err)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	analyzer.PrintResult(cmd.OutOrStdout(), result, showDiff)
	return nil
}

// List command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the components declared in the project",
	Long:  "List the PascalCase components declared in component and page files. With --verbose the project scan is printed as well.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		extractor, err := analyzer.New(cfg.Project, append(cfg.ExtractorOptions(), analyzer.WithLogger(logger))...)
		if err != nil {
			return err
		}

		structure, err := extractor.ScanProject()
		if err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}

		if verbose {
			analyzer.PrintStructure(cmd.OutOrStdout(), structure)
			fmt.Fprintln(cmd.OutOrStdout())
		}

		analyzer.PrintComponents(cmd.OutOrStdout(), extractor.ListComponents(structure))
		return nil
	},
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "component-extractor %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", date)
		fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
	},
}

// Config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage component-extractor configuration settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration values from all sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cfg.Marshal()
		if err != nil {
			return err
		}

		used := viper.ConfigFileUsed()
		if used == "" {
			used = "none"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# Config file: %s\n", used)
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  "Create a default " + config.FileName + " in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault(".")
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
