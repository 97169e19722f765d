package cli

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-editor/internal/server"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the editor as an MCP (Model Context Protocol) server.

Requests are read as JSON-RPC, one per line, from stdin and responses are
written to stdout. Logs go to stderr. Configure it in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			if err := setupLogging(cfg.LogLevel, os.Stderr); err != nil {
				return err
			}
			sessionCfg, err := cfg.SessionConfig()
			if err != nil {
				return err
			}

			log.Debugf("Image Editor MCP Server %s (built %s, commit %s)", o.info.Version, o.info.BuildTime, o.info.GitCommit)

			server.Version = o.info.Version
			return server.New(sessionCfg).Run()
		},
	}
}
