package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type platformsJSONOutput struct {
	Platforms []string `json:"platforms"`
}

// NewPlatformsCmd creates the platforms command.
func NewPlatformsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List platforms with a loadable ruleset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := rt.svc.Platforms(cmd.Context())
			if err != nil {
				return err
			}
			if names == nil {
				names = []string{}
			}

			w := cmd.OutOrStdout()
			if rt.json {
				writeJSON(w, platformsJSONOutput{Platforms: names})
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(w, n)
			}
			return nil
		},
	}
}
