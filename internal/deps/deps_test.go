package deps_test

import (
	"bytes"
	"testing"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// TestYAMLDependencyAvailable verifies that gopkg.in/yaml.v3 is importable
// and functional for ruleset parsing.
func TestYAMLDependencyAvailable(t *testing.T) {
	input := "platform: Generic"
	var node yaml.Node
	err := yaml.Unmarshal([]byte(input), &node)
	if err != nil {
		t.Fatalf("yaml.Unmarshal() returned error: %v", err)
	}
	if node.Kind != yaml.DocumentNode {
		t.Errorf("yaml.Node.Kind = %v, want %v (DocumentNode)", node.Kind, yaml.DocumentNode)
	}
}

// TestFlockDependencyAvailable verifies that github.com/gofrs/flock is
// importable and can construct a lock handle.
func TestFlockDependencyAvailable(t *testing.T) {
	fl := flock.New(t.TempDir() + "/test.lock")
	if fl == nil {
		t.Fatal("flock.New() returned nil")
	}
	path := fl.Path()
	if path == "" {
		t.Error("flock.Path() returned empty string")
	}
}

// TestUnicodeTextDependencyAvailable verifies that golang.org/x/text is
// importable and folds compatibility forms for platform name matching.
func TestUnicodeTextDependencyAvailable(t *testing.T) {
	input := "ＬｉｎｋｅｄＩｎ" // fullwidth "LinkedIn"
	got := norm.NFKC.String(input)
	if got != "LinkedIn" {
		t.Errorf("norm.NFKC.String(%q) = %q, want %q", input, got, "LinkedIn")
	}
}

// TestExcelizeDependencyAvailable verifies that github.com/xuri/excelize/v2
// can write a workbook to memory.
func TestExcelizeDependencyAvailable(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", "Headline"); err != nil {
		t.Fatalf("SetCellValue() returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("workbook is empty")
	}
}
