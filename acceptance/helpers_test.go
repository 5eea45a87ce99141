package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// runAdsheet executes the adsheet binary and returns stdout, stderr, and exit code.
// ADSHEET_* variables from the caller's environment are not inherited.
func runAdsheet(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(adsheetBinary, args...)
	cmd.Dir = dir
	cmd.Env = []string{"HOME=" + dir, "XDG_CONFIG_HOME=" + filepath.Join(dir, ".config")}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run adsheet: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runAdsheetCode runs adsheet expecting the given exit code and returns stdout.
func runAdsheetCode(t *testing.T, want int, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runAdsheet(t, dir, args...)
	if exitCode != want {
		t.Fatalf("expected exit %d, got %d\nargs: %v\nstdout: %s\nstderr: %s", want, exitCode, args, stdout, stderr)
	}
	return stdout
}

// runAdsheetJSON runs adsheet with --json and decodes stdout.
func runAdsheetJSON(t *testing.T, want int, dir string, args ...string) map[string]any {
	t.Helper()
	stdout := runAdsheetCode(t, want, dir, append(args, "--json")...)
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

// fileExists checks if a file exists.
func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// issueIDs extracts issue ids from a decoded issues array.
func issueIDs(t *testing.T, v any) []string {
	t.Helper()
	arr, ok := v.([]any)
	if !ok {
		t.Fatalf("issues is %T, want array", v)
	}
	ids := make([]string, 0, len(arr))
	for _, item := range arr {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}
