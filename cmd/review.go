package cmd

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eykd/adsheet-go/internal/domain"
)

// ReviewRequest describes a non-interactive review: a decisions file is
// applied to the validated table and the result exported.
type ReviewRequest struct {
	Path      string
	Decisions string
	Out       string
	Platform  string
	Fix       bool
}

// ReviewOutcome is the state of a review after every decision is applied.
type ReviewOutcome struct {
	Platform    string         `json:"platform"`
	Handled     int            `json:"handled"`
	Pending     []domain.Issue `json:"pending"`
	Introduced  []domain.Issue `json:"introduced"`
	DeletedRows []int          `json:"deleted_rows"`
	Written     *WrittenFile   `json:"written"`
}

// NewReviewCmd creates the review command.
func NewReviewCmd(rt *runtime) *cobra.Command {
	var req ReviewRequest

	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Apply fix, ignore, override and delete decisions and export the result",
		Long: "Validate a spreadsheet, apply the decisions listed in a YAML file and " +
			"write the reviewed table. Edited cells are checked again. Exits 2 when " +
			"blocking issues are still pending or were raised by an edit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			out, err := rt.svc.Review(cmd.Context(), req)
			if err != nil {
				return err
			}
			if out.Pending == nil {
				out.Pending = []domain.Issue{}
			}
			if out.Introduced == nil {
				out.Introduced = []domain.Issue{}
			}
			if out.DeletedRows == nil {
				out.DeletedRows = []int{}
			}

			w := cmd.OutOrStdout()
			if rt.json {
				writeJSON(w, out)
			} else {
				formatIssuesHuman(w, out.Pending)
				if len(out.Introduced) > 0 {
					fmt.Fprintln(w, "\nraised by edited values:")
					formatIssuesHuman(w, out.Introduced)
				}
				fmt.Fprintf(w, "\n%s: %s issues handled, %s pending, %s introduced, %s rows deleted\n",
					out.Platform,
					humanize.Comma(int64(out.Handled)),
					humanize.Comma(int64(len(out.Pending))),
					humanize.Comma(int64(len(out.Introduced))),
					humanize.Comma(int64(len(out.DeletedRows))),
				)
				formatWrittenHuman(w, out.Written)
			}
			return issuesError(slices.Concat(out.Pending, out.Introduced))
		},
	}

	cmd.Flags().StringVarP(&req.Decisions, "decisions", "d", "", "YAML file listing review decisions")
	cmd.Flags().StringVarP(&req.Out, "out", "o", "", "Write the reviewed table to this CSV or XLSX file")
	cmd.Flags().StringVarP(&req.Platform, "platform", "p", "", "Platform name (default: detect from headers)")
	cmd.Flags().BoolVar(&req.Fix, "fix", false, "Apply auto-apply fixes before the decisions")
	_ = cmd.MarkFlagRequired("decisions")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
