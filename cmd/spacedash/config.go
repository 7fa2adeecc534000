package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"spacedash/pkg/config"
	"spacedash/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage spacedash configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (SPACEDASH_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.spacedash.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging flags, environment
variables, the configuration file and defaults.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value ranges
  - Output and log directory accessibility`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# spacedash configuration file
#
# Every option can also be set with an environment variable prefixed with
# SPACEDASH_, for example SPACEDASH_API_BASE_URL or SPACEDASH_LOG_LEVEL.

# Launch Library 2 API
api:
  # Use https://ll.thespacedevs.com for production data (rate limited)
  base_url: "https://lldev.thespacedevs.com"
  user_agent: "spacedash/1.0"
  timeout: 30s

# Fetch sizing
fetch:
  # Every request asks for at least this many records so filters have
  # enough candidates to choose from
  min_fetch: 100
  # Results shown when no --limit is given
  default_limit: 5
  max_limit: 100

# Image archives
archive:
  output_directory: "."
  image_extension: ".jpg"

# Launch exports
export:
  # csv or xlsx
  default_format: "csv"
  sheet_name: "Launches"

# HTTP dashboard
server:
  address: ":8080"
  read_timeout: 10s
  write_timeout: 5m

# Logging
logging:
  # debug, info, warn, error
  level: "info"
  # console or json
  format: "console"
  # Leave empty to log to stderr only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".spacedash.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		return fmt.Errorf("refusing to overwrite %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file")
	fmt.Println("2. Run 'spacedash config validate' to check the configuration")
	fmt.Println("3. Start browsing with 'spacedash list astronauts'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (" + config.EnvPrefix + "*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (default locations)")
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		possiblePaths := []string{
			".spacedash.yaml",
			".spacedash.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "spacedash", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".spacedash.yaml"),
		}
		for _, p := range possiblePaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			return fmt.Errorf("no configuration file found")
		}
	}

	ui.PrintInfo("Validating configuration", path)

	cfg, err := config.Load(path, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		return err
	}

	var problems []string
	if err := os.MkdirAll(cfg.Archive.OutputDirectory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return fmt.Errorf("configuration has %d errors", len(problems))
	}

	if cfg.Fetch.MinFetch < cfg.Fetch.MaxLimit {
		ui.PrintWarning("Warning:", "min_fetch below max_limit may leave filtered results short")
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  API: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Min fetch: %d\n", cfg.Fetch.MinFetch)
	fmt.Printf("  Output directory: %s\n", cfg.Archive.OutputDirectory)
	fmt.Printf("  Export format: %s\n", cfg.Export.DefaultFormat)
	fmt.Printf("  Server address: %s\n", cfg.Server.Address)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
