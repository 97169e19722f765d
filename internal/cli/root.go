package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-editor/internal/config"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

type rootOptions struct {
	info       BuildInfo
	configPath string
	logLevel   string
}

func newRootCmd(info BuildInfo) *cobra.Command {
	o := &rootOptions{info: info}

	cmd := &cobra.Command{
		Use:           "image-editor",
		Short:         "Resize and convert images locally",
		Long:          "image-editor loads an image, resizes it to exact pixel dimensions and saves it as PNG or JPEG.\nNothing leaves the machine.",
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("image-editor {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level (panic, fatal, error, warn, info, debug, trace)")

	cmd.AddCommand(
		newServeCmd(o),
		newEditCmd(o),
		newResizeCmd(o),
		newVersionCmd(o),
	)
	return cmd
}

// loadConfig reads the config file and applies the --log-level flag.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	return cfg, nil
}

// setupLogging points logrus at w. stdout is never used because the MCP
// server owns it.
func setupLogging(level string, w io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(info BuildInfo) {
	if err := newRootCmd(info).Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
