package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jsonerr/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "jsonerr",
	Short: "Declarative error taxonomy compiler",
	Long: `jsonerr compiles annotated Go error declarations into JSON error responses
and OpenAPI documentation fragments`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

// init registers subcommands and persistent flags.
func init() {
	// версия для автоматического флага --version
	rootCmd.Version = version.Collect().Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error); defaults to $JSONERR_LOG_LEVEL or warn")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", -1, "maximum number of diagnostics per unit (-1 = manifest value)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to the file")
}

// main executes the root command. Any error exits with status 1.
func main() {
	err := rootCmd.Execute()
	stopProfiling()
	if err != nil {
		// диагностики уже напечатаны
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "jsonerr: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
