// Package cmd defines the command-line interface for sprawl.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the repos subcommands to the parent repos command
	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposShowCmd)
	reposCmd.AddCommand(reposAddCmd)
	reposCmd.AddCommand(reposDeleteCmd)
	reposCmd.AddCommand(reposGithubCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "Base URL of the scanner service")
	rootCmd.PersistentFlags().String("api-token", "", "Bearer token sent to the scanner service")
	rootCmd.PersistentFlags().Bool("require-token", false, "Refuse to start scans without an API token")
	rootCmd.PersistentFlags().String("poll-interval", schema.DefaultPollInterval.String(), "Interval between scan status polls")
	rootCmd.PersistentFlags().String("request-timeout", contract.DefaultRequestTimeout.String(), "Timeout for each request to the scanner service")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Maximum requests per second to the scanner service")
	rootCmd.PersistentFlags().Int("cache-size", contract.DefaultCacheSize, "Number of completed scan results kept in memory")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultTreeLimit, "Number of top-level hierarchy entries to keep")
	rootCmd.PersistentFlags().Int("top", contract.DefaultTopFiles, "Number of ranked files to display (0 = all)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-file metric columns")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultListenAddr, "Address to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of reposGithubCmd to Viper
	reposGithubCmd.Flags().String("search", "", "Only list repositories matching this text")
	if err := viper.BindPFlags(reposGithubCmd.Flags()); err != nil {
		contract.LogFatal("Error binding repos github flags", err)
	}
}
