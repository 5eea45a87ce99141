package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eykd/adsheet-go/internal/config"
)

// NewServeCmd creates the serve command. --addr is bound to server.addr.
func NewServeCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.svc.Serve(cmd.Context(), rt.cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	return cmd
}
