package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"winctl/internal/ipc"
	"winctl/internal/mcp"
)

// NewMCPCmd creates the mcp command
func NewMCPCmd(log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long:  `Expose the window control operations as MCP tools over stdio. Requires a running daemon.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(ipc.NewClient())
			if err != nil {
				return err
			}
			log.Info().Msg("MCP server starting on stdio")
			return server.Run(cmd.Context())
		},
	}
}
