package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCreatesAccount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "admin_test.db")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	args := []string{"-user", "alice", "-password", "secret", "-db", dbPath}
	if err := run(args, new(bytes.Buffer), stdout, stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Account alice created successfully") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunDuplicateAccount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "admin_test.db")
	args := []string{"-user", "alice", "-password", "secret", "-db", dbPath}

	if err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)); err != nil {
		t.Fatalf("first run() error = %v", err)
	}
	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second run() error = %v, want already-exists", err)
	}
}

func TestRunMissingUser(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run([]string{"-password", "secret"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	if err == nil || !strings.Contains(err.Error(), "missing required flags: user") {
		t.Errorf("run() error = %v, want missing-flags", err)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Error("usage not printed for missing flags")
	}
}

func TestRunPromptsForPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "admin_test.db")
	stdout := new(bytes.Buffer)
	stdin := bytes.NewBufferString("typed-secret\n")

	args := []string{"-user", "alice", "-db", dbPath}
	if err := run(args, stdin, stdout, new(bytes.Buffer)); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Password: ") {
		t.Error("password prompt not printed")
	}
}

func TestRunRejectsEmptyPassword(t *testing.T) {
	stdin := bytes.NewBufferString("\n")
	err := run([]string{"-user", "alice"}, stdin, new(bytes.Buffer), new(bytes.Buffer))
	if err == nil || !strings.Contains(err.Error(), "password cannot be empty") {
		t.Errorf("run() error = %v, want empty-password", err)
	}
}
