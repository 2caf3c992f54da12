package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information, set at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile     string
	logLevel       string
	timeoutSeconds int
	keepFiles      bool
	accountName    string
)

// rootCmd fetches a post when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "igfetch <post_url>",
	Short: "Fetch Instagram post metadata and media as JSON",
	Long: `igfetch resolves an Instagram post, reel, or TV URL, downloads its
media to a scratch directory, and prints a single JSON result on
standard output. The exit code is 0 on success and 1 on failure.

Public posts work anonymously. Private or login-walled content needs
stored session credentials; see 'igfetch auth login'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runFetch(args, os.Stdout))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .igfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "download timeout in seconds")
	rootCmd.Flags().BoolVar(&keepFiles, "keep-files", false, "keep staged media files after the fetch")
	rootCmd.Flags().StringVar(&accountName, "account", "", "stored account to authenticate with")

	rootCmd.SetVersionTemplate(`igfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
