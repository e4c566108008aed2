package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jsonerr/jsonresp/openapi"
)

const sampleErrors = `package app

//jsonerr:unit AppErrors
type (
	//jsonerr:case(request, status = http.StatusNotFound, code = "not-found")
	NotFound struct{}

	//jsonerr:case(request, status = 404, code = "not-found-2")
	NotFound2 struct{}

	//jsonerr:case(request, status = 409, code = "received-odd-number", hint = "Try an even number")
	OddNotAllowed struct{ Reason string }

	//jsonerr:case(internal)
	Storage struct{ Err error }
)
`

const brokenSample = `package app

//jsonerr:unit Broken
type (
	//jsonerr:case(request, code = "no-status")
	NoStatus struct{}
)
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		flag, env string
		want      zerolog.Level
		wantErr   string
	}{
		{want: zerolog.WarnLevel},
		{flag: "debug", env: "error", want: zerolog.DebugLevel},
		{env: "ERROR", want: zerolog.ErrorLevel},
		{flag: " info ", want: zerolog.InfoLevel},
		{flag: "loud", wantErr: "--log-level"},
		{env: "loud", wantErr: logLevelEnv},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.flag, tt.env)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("parseLogLevel(%q, %q) error = %v, want mention of %s", tt.flag, tt.env, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseLogLevel(%q, %q) = %v, %v; want %v", tt.flag, tt.env, got, err, tt.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, "true": uiModeOn, " off ": uiModeOff, "0": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestUseProgressUI(t *testing.T) {
	tty := progressTarget{files: 3, format: "pretty", terminal: true}
	tests := []struct {
		name   string
		mode   uiMode
		target progressTarget
		want   bool
	}{
		{"auto on a terminal", uiModeAuto, tty, true},
		{"auto single file", uiModeAuto, progressTarget{files: 1, format: "pretty", terminal: true}, false},
		{"auto without terminal", uiModeAuto, progressTarget{files: 3, format: "pretty"}, false},
		{"auto in CI", uiModeAuto, progressTarget{files: 3, format: "pretty", terminal: true, ci: true}, false},
		{"on without terminal", uiModeOn, progressTarget{files: 1, format: "pretty"}, true},
		{"on with json output", uiModeOn, progressTarget{files: 3, format: "json", terminal: true}, false},
		{"off on a terminal", uiModeOff, tty, false},
	}
	for _, tt := range tests {
		if got := tt.mode.useProgressUI(tt.target); got != tt.want {
			t.Fatalf("%s: useProgressUI = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUIModeFromEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want uiMode
	}{
		{"env used without flag", "off", nil, uiModeOff},
		{"flag wins over env", "off", []string{"--ui=on"}, uiModeOn},
		{"empty env means auto", "", nil, uiModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(uiEnvVar, tt.env)
			cmd := &cobra.Command{Use: "x"}
			cmd.Flags().String("ui", "auto", "")
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			got, err := uiModeFromCommand(cmd)
			if err != nil || got != tt.want {
				t.Fatalf("uiModeFromCommand = %q, %v; want %q", got, err, tt.want)
			}
		})
	}

	t.Setenv(uiEnvVar, "sometimes")
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("ui", "auto", "")
	if _, err := uiModeFromCommand(cmd); err == nil {
		t.Fatal("expected error for unknown JSONERR_UI value")
	}
}

func TestDecodePayload(t *testing.T) {
	if got := decodePayload(`{"a":1}`, false); got.(map[string]any)["a"] != float64(1) {
		t.Fatalf("json payload = %#v", got)
	}
	if got := decodePayload("plain text", false); got != "plain text" {
		t.Fatalf("string payload = %#v", got)
	}
	if got := decodePayload(`"x"`, true); got != nil {
		t.Fatalf("naive payload = %#v", got)
	}
}

func TestGenExplainAndCombine(t *testing.T) {
	dir := sampleDir(t, map[string]string{"errors.go": sampleErrors})
	src := filepath.Join(dir, "errors.go")
	fragPath := filepath.Join(dir, "errors.jsonerr.json")

	if _, err := execute(t, "gen", "--ui", "off", dir); err != nil {
		t.Fatalf("gen: %v", err)
	}
	for _, name := range []string{"errors_jsonerr.go", "errors.jsonerr.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
	}

	out, err := execute(t, "explain", src, "AppErrors", "OddNotAllowed", "--payload", `{"Reason":"odd"}`)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	for _, want := range []string{`"kind": "request"`, `"status": 409`, `"code": "received-odd-number"`, `"Reason": "odd"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("explain output lacks %s:\n%s", want, out)
		}
	}

	if _, err := execute(t, "explain", src, "AppErrors", "Missing"); err == nil {
		t.Fatal("expected error for unknown case")
	}

	out, err = execute(t, "combine", fragPath, "NotFound", "NotFound2")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if !strings.Contains(out, "NotFoundOrNotFound2") || !strings.Contains(out, "#/definitions/NotFound2") {
		t.Fatalf("unexpected combine output:\n%s", out)
	}

	_, err = execute(t, "combine", fragPath, "NotFound", "OddNotAllowed")
	if !errors.Is(err, openapi.ErrStatusMismatch) {
		t.Fatalf("combine mismatch error = %v", err)
	}
}

func TestDocsMerge(t *testing.T) {
	dir := sampleDir(t, map[string]string{
		"errors.go":    sampleErrors,
		"swagger.json": `{"swagger":"2.0","info":{"title":"api","version":"1"},"paths":{}}`,
	})
	if _, err := execute(t, "gen", "--ui", "off", filepath.Join(dir, "errors.go")); err != nil {
		t.Fatalf("gen: %v", err)
	}

	out, err := execute(t, "docs", "merge", "--into", filepath.Join(dir, "swagger.json"), "--out", "-", filepath.Join(dir, "errors.jsonerr.json"))
	if err != nil {
		t.Fatalf("docs merge: %v", err)
	}
	for _, want := range []string{`"swagger": "2.0"`, `"OddNotAllowed"`, `"InternalError"`, `"$ref": "#/definitions/NotFound"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("merged document lacks %s:\n%s", want, out)
		}
	}
}

func TestDiagEmitsIRAndFails(t *testing.T) {
	dir := sampleDir(t, map[string]string{
		"errors.go": sampleErrors,
		"broken.go": brokenSample,
	})
	out, err := execute(t, "diag", "--format", "short", "--emit-ir", "json", dir)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("diag error = %v, want errDiagnostics", err)
	}
	if !strings.Contains(out, "ATR3010") {
		t.Fatalf("missing diagnostic in output:\n%s", out)
	}
	if !strings.Contains(out, `"name": "AppErrors"`) {
		t.Fatalf("missing IR of the valid unit:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "errors_jsonerr.go")); !os.IsNotExist(err) {
		t.Fatalf("diag must not write outputs, stat err = %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "jsonerr"`) {
		t.Fatalf("unexpected version output:\n%s", out)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "svc")
	if _, err := execute(t, "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "jsonerr.toml")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if _, err := execute(t, "init", dir); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second init error = %v", err)
	}
}
