package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jsonerr/jsonresp"
)

const logLevelEnv = "JSONERR_LOG_LEVEL"

// setupLogging configures the global zerolog logger: console output on
// stderr, level from --log-level, then $JSONERR_LOG_LEVEL, then warn.
func setupLogging(cmd *cobra.Command, _ []string) error {
	raw, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	level, err := parseLogLevel(raw, os.Getenv(logLevelEnv))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(os.Stderr),
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	// записи внутренних ошибок в `jsonerr explain` идут туда же
	jsonresp.SetLogger(log.Logger.With().Str("component", "jsonresp").Logger())
	return nil
}

func parseLogLevel(flagValue, envValue string) (zerolog.Level, error) {
	value := strings.TrimSpace(flagValue)
	source := "--log-level"
	if value == "" {
		value = strings.TrimSpace(envValue)
		source = logLevelEnv
	}
	if value == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(value))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("invalid %s value %q", source, value)
	}
	return level, nil
}
