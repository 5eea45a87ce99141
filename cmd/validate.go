package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/mismatch"
)

// ValidateRequest describes one validate run.
type ValidateRequest struct {
	Path     string
	Platform string
	Fix      bool
	Mismatch bool
	Out      string
}

// WrittenFile describes an exported table.
type WrittenFile struct {
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Bytes int64  `json:"bytes"`
}

// ValidateOutcome is the result of a validate run.
type ValidateOutcome struct {
	Result  *domain.ValidationResult
	Flags   []mismatch.Flag
	Written *WrittenFile
}

type validateJSONOutput struct {
	Platform string              `json:"platform"`
	Issues   []domain.Issue      `json:"issues"`
	Summary  domain.SummaryStats `json:"summary"`
	Flags    []mismatch.Flag     `json:"flags,omitempty"`
	Written  *WrittenFile        `json:"written,omitempty"`
}

// NewValidateCmd creates the validate command.
func NewValidateCmd(rt *runtime) *cobra.Command {
	var req ValidateRequest

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a spreadsheet against its platform rules",
		Long: "Check every row of a CSV or Excel file against the platform's rules. " +
			"The platform is detected from the headers unless --platform is given. " +
			"Exits 2 when blocking issues are found.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			out, err := rt.svc.Validate(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if rt.json {
				issues := out.Result.Issues
				if issues == nil {
					issues = []domain.Issue{}
				}
				writeJSON(w, validateJSONOutput{
					Platform: out.Result.Platform,
					Issues:   issues,
					Summary:  out.Result.Summary,
					Flags:    out.Flags,
					Written:  out.Written,
				})
			} else {
				formatIssuesHuman(w, out.Result.Issues)
				formatFlagsHuman(w, out.Flags)
				formatSummaryHuman(w, out.Result.Platform, out.Result.Summary)
				formatWrittenHuman(w, out.Written)
			}
			return issuesError(out.Result.Issues)
		},
	}

	cmd.Flags().StringVarP(&req.Platform, "platform", "p", "", "Platform name (default: detect from headers)")
	cmd.Flags().BoolVar(&req.Fix, "fix", false, "Apply auto-apply fixes to the exported copy")
	cmd.Flags().BoolVar(&req.Mismatch, "mismatch", false, "Also flag content placed in the wrong column")
	cmd.Flags().StringVarP(&req.Out, "out", "o", "", "Write the verified table to this CSV or XLSX file")

	return cmd
}
