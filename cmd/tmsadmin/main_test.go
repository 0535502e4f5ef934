// Package main provides tests for the tmsadmin CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/haulwise/tmsadmin/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "tmsadmin v") {
		t.Errorf("version output should contain 'tmsadmin v', got: %s", output)
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "tmsadmin ") {
		t.Errorf("unexpected version output: %s", buf.String())
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help error = %v", err)
	}
	for _, want := range []string{"serve", "list", "browse", "seed", "migrate"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("help should list %q", want)
		}
	}
}
