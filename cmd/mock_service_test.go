package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/eykd/adsheet-go/internal/config"
	"github.com/eykd/adsheet-go/internal/rulestore"
)

// mockService records requests and returns canned outcomes.
type mockService struct {
	validateReq ValidateRequest
	validateOut *ValidateOutcome

	detectPath string
	detectOut  *DetectOutcome

	platforms []string

	reviewReq ReviewRequest
	reviewOut *ReviewOutcome

	lint []rulestore.LintResult

	serveAddr string

	err error
}

func (m *mockService) Validate(_ context.Context, req ValidateRequest) (*ValidateOutcome, error) {
	m.validateReq = req
	return m.validateOut, m.err
}

func (m *mockService) Detect(_ context.Context, path string) (*DetectOutcome, error) {
	m.detectPath = path
	return m.detectOut, m.err
}

func (m *mockService) Platforms(context.Context) ([]string, error) {
	return m.platforms, m.err
}

func (m *mockService) Review(_ context.Context, req ReviewRequest) (*ReviewOutcome, error) {
	m.reviewReq = req
	return m.reviewOut, m.err
}

func (m *mockService) Lint(context.Context) ([]rulestore.LintResult, error) {
	return m.lint, m.err
}

func (m *mockService) Serve(_ context.Context, addr string) error {
	m.serveAddr = addr
	return m.err
}

// harness runs a fresh command tree against a mock service and captures the
// resolved config.
type harness struct {
	fs     afero.Fs
	svc    *mockService
	cfg    config.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(svc *mockService) *harness {
	return &harness{fs: afero.NewMemMapFs(), svc: svc}
}

func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	root := NewRootCmd(h.fs, func(_ afero.Fs, cfg config.Config, _ zerolog.Logger) (Service, error) {
		h.cfg = cfg
		return h.svc, nil
	})
	return RunCLI(root, args, &h.stdout, &h.stderr)
}
