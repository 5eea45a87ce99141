package acceptance_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var adsheetBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "adsheet-acceptance-*")
	if err != nil {
		panic(err)
	}

	adsheetBinary = filepath.Join(tmpDir, "adsheet")
	build := exec.Command("go", "build", "-o", adsheetBinary, "github.com/eykd/adsheet-go")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		os.RemoveAll(tmpDir)
		panic("failed to build adsheet binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}
