package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdityaMalani1302/cms/internal/config"
)

// v holds the environment-backed settings; subcommands bind their flags to it.
var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "cms-chatbot",
	Short: "Rule-based customer support chatbot for the CMS courier platform",
	Long: `cms-chatbot answers customer questions about parcels: tracking, pricing,
complaints and support contacts. Run "serve" for the HTTP API or "classify"
to see how a single message is understood.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level: DEBUG, INFO, WARNING, ERROR (or set LOG_LEVEL)")
	rootCmd.PersistentFlags().Bool("debug", false, "development logging (or set DEBUG)")
	rootCmd.PersistentFlags().String("rules", "", "YAML file replacing the built-in intent rules (or set RULES_FILE)")

	// Flags win over the environment only when set on the command line.
	v.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("DEBUG", rootCmd.PersistentFlags().Lookup("debug"))
	v.BindPFlag("RULES_FILE", rootCmd.PersistentFlags().Lookup("rules"))

	rootCmd.AddCommand(newServeCmd(), newClassifyCmd())
}
