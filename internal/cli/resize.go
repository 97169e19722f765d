package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-editor/internal/config"
	"github.com/ironsheep/image-editor/internal/editor"
)

type resizeOptions struct {
	width     int
	height    int
	format    string
	quality   float64
	outputDir string
	resampler string
	suffix    string
}

func newResizeCmd(o *rootOptions) *cobra.Command {
	r := &resizeOptions{}

	cmd := &cobra.Command{
		Use:   "resize <file>",
		Short: "Resize one image and save it",
		Long: `Load an image, resize it to exactly --width x --height and save it as
<name>-edited.<ext> in the output directory. A missing side keeps the
image's natural size. Aspect ratio is not preserved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			if err := r.apply(cmd, cfg); err != nil {
				return err
			}
			if err := setupLogging(cfg.LogLevel, os.Stderr); err != nil {
				return err
			}
			sessionCfg, err := cfg.SessionConfig()
			if err != nil {
				return err
			}
			return r.run(cmd, editor.New(sessionCfg), args[0])
		},
	}

	f := cmd.Flags()
	f.IntVarP(&r.width, "width", "W", 0, "target width in pixels (default: natural width)")
	f.IntVarP(&r.height, "height", "H", 0, "target height in pixels (default: natural height)")
	f.StringVarP(&r.format, "format", "f", "", "output format: png or jpeg (default from config)")
	f.Float64VarP(&r.quality, "quality", "q", 0, "JPEG quality from 0.0 to 1.0 (default from config)")
	f.StringVarP(&r.outputDir, "output-dir", "o", "", "directory for the saved file (default from config)")
	f.StringVar(&r.resampler, "resampler", "", "resampling filter (default from config)")
	f.StringVar(&r.suffix, "suffix", "", "suffix added to the file name (default from config)")
	return cmd
}

// apply copies the flags the user set onto cfg and revalidates it.
func (r *resizeOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.OutputFormat = r.format
	}
	if f.Changed("quality") {
		cfg.JPEGQuality = r.quality
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = r.outputDir
	}
	if f.Changed("resampler") {
		cfg.Resampler = r.resampler
	}
	if f.Changed("suffix") {
		cfg.FilenameSuffix = r.suffix
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (r *resizeOptions) run(cmd *cobra.Command, s *editor.Session, path string) error {
	if err := s.LoadFile(cmd.Context(), path); err != nil {
		return userError(err)
	}

	// Load resets the target to the natural size.
	opts := s.Options()
	if cmd.Flags().Changed("width") {
		opts.Width = r.width
	}
	if cmd.Flags().Changed("height") {
		opts.Height = r.height
	}
	s.SetDimensions(opts.Width, opts.Height)

	if err := s.Apply(cmd.Context()); err != nil {
		return userError(err)
	}
	export, err := s.Download(cmd.Context())
	if err != nil {
		return userError(err)
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved %s", export.Path)
	fmt.Fprintf(cmd.OutOrStdout(), " (%dx%d %s, %d bytes)\n", export.Width, export.Height, export.Format, export.Bytes)
	return nil
}

// userError prefixes err with the message a user of the editor would see.
func userError(err error) error {
	return fmt.Errorf("%s: %w", editor.UserMessage(err), err)
}
