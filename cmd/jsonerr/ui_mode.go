package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

// uiEnvVar overrides the --ui default when the flag is not given.
const uiEnvVar = "JSONERR_UI"

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on", "true", "1":
		return uiModeOn, nil
	case "off", "false", "0":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid ui mode %q (expected auto|on|off)", value)
	}
}

// uiModeFromCommand reads --ui, falling back to JSONERR_UI.
func uiModeFromCommand(cmd *cobra.Command) (uiMode, error) {
	value, err := cmd.Flags().GetString("ui")
	if err != nil {
		return "", fmt.Errorf("failed to get ui flag: %w", err)
	}
	if env, ok := os.LookupEnv(uiEnvVar); ok && !cmd.Flags().Changed("ui") {
		value = env
	}
	return readUIMode(value)
}

// progressTarget is what the progress UI would be drawn for.
type progressTarget struct {
	files    int
	format   string
	terminal bool
	ci       bool
}

func currentProgressTarget(files int, format string) progressTarget {
	_, ci := os.LookupEnv("CI")
	return progressTarget{
		files:    files,
		format:   format,
		terminal: isTerminal(os.Stdout),
		ci:       ci,
	}
}

// useProgressUI: json and short output own stdout, so no mode draws over them.
// auto also wants an interactive terminal outside CI and more than one file.
func (m uiMode) useProgressUI(t progressTarget) bool {
	if t.format != "pretty" {
		return false
	}
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return t.files > 1 && t.terminal && !t.ci
	}
}
