package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yeomju/cmd/yeomju/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server that lets an assistant
query your chanting history.

Configure in your assistant's MCP config:
  {
    "mcpServers": {
      "yeomju": {
        "command": "yeomju",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	path := e.cfg.DBPath
	e.close()

	if err := mcp.StartServer(path); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
