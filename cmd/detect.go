package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/adsheet-go/internal/detect"
)

// DetectOutcome is the platform guess for a file.
type DetectOutcome struct {
	Platform string         `json:"platform"`
	Headers  []string       `json:"headers"`
	Scores   []detect.Score `json:"scores"`
}

// NewDetectCmd creates the detect command.
func NewDetectCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Guess which ad platform a spreadsheet was exported for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := rt.svc.Detect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if rt.json {
				writeJSON(w, out)
				return nil
			}
			fmt.Fprintln(w, out.Platform)
			for _, s := range out.Scores {
				fmt.Fprintf(w, "  %-16s %3d\n", s.Platform, s.Score)
			}
			return nil
		},
	}
}
