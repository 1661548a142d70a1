package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roundup %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "roundup",
		Short: "Round-up micro-savings projection CLI",
		Long: "Rounds expenses up to the next multiple of 100, applies temporal override (q),\n" +
			"addition (p) and evaluation (k) periods, and projects NPS or index fund returns.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: roundup.yaml in . or $HOME/.roundup)")
	root.PersistentFlags().String("env-file", "", "Path to dotenv file (default: .env)")
	root.PersistentFlags().StringP("format", "f", "table", "Output format (table, json, csv)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		parseCmd(a),
		validateCmd(a),
		filterCmd(a),
		returnsCmd(a),
		strategiesCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
