package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-editor/internal/editor"
	"github.com/ironsheep/image-editor/internal/ui"
)

func newEditCmd(o *rootOptions) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive terminal editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}

			// The terminal belongs to the UI, so logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			if err := setupLogging(cfg.LogLevel, logOut); err != nil {
				return err
			}

			sessionCfg, err := cfg.SessionConfig()
			if err != nil {
				return err
			}

			opt := &ui.Option{
				Session:     editor.New(sessionCfg),
				WatchSource: cfg.WatchSource && !noWatch,
			}
			if len(args) == 1 {
				opt.Path = args[0]
			}
			return ui.Start(opt)
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the image when the file changes")
	return cmd
}
