package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/adsheet-go/internal/rulestore"
)

type lintJSONEntry struct {
	Source   string `json:"source"`
	Platform string `json:"platform,omitempty"`
	Rules    int    `json:"rules"`
	Error    string `json:"error,omitempty"`
}

type doctorJSONOutput struct {
	Rulesets []lintJSONEntry `json:"rulesets"`
	Failed   int             `json:"failed"`
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Load every ruleset and report the ones that are broken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := rt.svc.Lint(cmd.Context())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.OK() {
					failed++
				}
			}

			w := cmd.OutOrStdout()
			if rt.json {
				formatLintJSON(w, results, failed)
			} else {
				for _, r := range results {
					if r.OK() {
						fmt.Fprintf(w, "ok    %s: %s (%d rules)\n", r.Source, r.Platform, r.Rules)
					} else {
						fmt.Fprintf(w, "FAIL  %s: %v\n", r.Source, r.Err)
					}
				}
			}

			if failed > 0 {
				return &LintFailedError{Failed: failed}
			}
			return nil
		},
	}
}

func formatLintJSON(w io.Writer, results []rulestore.LintResult, failed int) {
	out := doctorJSONOutput{Rulesets: make([]lintJSONEntry, 0, len(results)), Failed: failed}
	for _, r := range results {
		e := lintJSONEntry{Source: r.Source, Platform: r.Platform, Rules: r.Rules}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		out.Rulesets = append(out.Rulesets, e)
	}
	writeJSON(w, out)
}
