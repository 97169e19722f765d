package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor/internal/imaging"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateTransformed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateTransformed:
		return "transformed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Usage errors returned when an action's precondition does not hold. All of
// them match imaging.ErrUsage.
var (
	ErrNoImage           = imaging.UsageError("session", "no image loaded")
	ErrNoResult          = imaging.UsageError("session", "no transformation applied")
	ErrInvalidDimensions = imaging.UsageError("session", "width and height must be positive")
	ErrInvalidFormat     = imaging.UsageError("session", "output format must be png or jpeg")
)

// Options is the configuration surface a Session exposes to its caller.
type Options struct {
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Format  imaging.Format `json:"format"`
	Quality float64        `json:"quality"`
}

// DefaultOptions returns the options of a fresh session.
func DefaultOptions() Options {
	return Options{
		Width:   800,
		Height:  600,
		Format:  imaging.FormatJPEG,
		Quality: imaging.DefaultJPEGQuality,
	}
}

// Dimensions returns the requested target size.
func (o Options) Dimensions() imaging.Dimensions {
	return imaging.Dimensions{Width: o.Width, Height: o.Height}
}

// Config wires a Session to its collaborators. Zero fields get defaults.
type Config struct {
	Renderer *imaging.Renderer
	Encoder  *imaging.Encoder
	Exporter imaging.Exporter
	Suffix   string
	Options  Options
}

// Export describes one saved download.
type Export struct {
	Path     string         `json:"path"`
	Filename string         `json:"filename"`
	Format   imaging.Format `json:"format"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Bytes    int            `json:"bytes"`
}

// Status is a point-in-time snapshot of a Session.
type Status struct {
	State    string              `json:"state"`
	FileName string              `json:"file_name,omitempty"`
	Source   *imaging.Info       `json:"source,omitempty"`
	Options  Options             `json:"options"`
	Result   *imaging.Dimensions `json:"result,omitempty"`
	Exports  int                 `json:"exports"`
}

// Session holds exactly one image and one render result at a time.
type Session struct {
	renderer *imaging.Renderer
	encoder  *imaging.Encoder
	exporter imaging.Exporter
	suffix   string

	opts     Options
	state    State
	fileName string
	handle   *imaging.Handle
	preview  *imaging.Surface
	result   *imaging.Encoded
	exports  int
}

// New creates an empty session.
func New(cfg Config) *Session {
	s := &Session{
		renderer: cfg.Renderer,
		encoder:  cfg.Encoder,
		exporter: cfg.Exporter,
		suffix:   cfg.Suffix,
		opts:     cfg.Options,
	}
	if s.renderer == nil {
		s.renderer = imaging.NewRenderer(nil)
	}
	if s.encoder == nil {
		s.encoder = imaging.NewEncoder(nil, 0)
	}
	if s.exporter == nil {
		s.exporter = imaging.DirExporter{Dir: "."}
	}
	if s.suffix == "" {
		s.suffix = imaging.DefaultSuffix
	}
	if s.opts == (Options{}) {
		s.opts = DefaultOptions()
	}
	if s.opts.Format == "" {
		s.opts.Format = imaging.FormatJPEG
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Options returns the current output options.
func (s *Session) Options() Options { return s.opts }

// FileName returns the base name of the loaded file, or "".
func (s *Session) FileName() string { return s.fileName }

// Handle returns the loaded image, or nil.
func (s *Session) Handle() *imaging.Handle { return s.handle }

// Preview returns the surface the loaded image was first drawn on, or nil.
func (s *Session) Preview() *imaging.Surface { return s.preview }

// Result returns the current lossless render result, or nil.
func (s *Session) Result() *imaging.Encoded { return s.result }

// Load decodes r as the new image. name is the original file name, used to
// derive download names. On success the target dimensions become the
// natural size and any previous render result is discarded. On failure the
// session is unchanged.
func (s *Session) Load(ctx context.Context, name string, r io.Reader) error {
	preview := new(imaging.Surface)
	h, err := imaging.Decode(ctx, r, preview)
	if err != nil {
		log.WithFields(log.Fields{"file": name, "state": s.state}).Debugf("load failed: %v", err)
		return err
	}

	s.handle = h
	s.preview = preview
	s.result = nil
	s.fileName = filepath.Base(name)
	s.opts.Width = h.Info().Width
	s.opts.Height = h.Info().Height
	s.state = StateLoaded

	log.WithFields(log.Fields{
		"file":   s.fileName,
		"format": h.Info().Format,
		"width":  s.opts.Width,
		"height": s.opts.Height,
		"state":  s.state,
	}).Debug("image loaded")
	return nil
}

// LoadFile opens path and loads it like Load.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return imaging.DecodeError("open", fmt.Errorf("failed to open image: %w", err))
	}
	defer f.Close()

	return s.Load(ctx, path, f)
}

// SetDimensions records the target size. It is validated by Apply.
func (s *Session) SetDimensions(width, height int) {
	s.opts.Width = width
	s.opts.Height = height
}

// SetFormat records the download format.
func (s *Session) SetFormat(f imaging.Format) error {
	if f != imaging.FormatPNG && f != imaging.FormatJPEG {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, f)
	}
	s.opts.Format = f
	return nil
}

// SetQuality records the JPEG quality, clamped to [0,1].
func (s *Session) SetQuality(q float64) {
	s.opts.Quality = imaging.ClampQuality(q)
}

// SetOptions records all output options at once. The format is checked;
// nothing is changed if it is invalid.
func (s *Session) SetOptions(o Options) error {
	if o.Format != imaging.FormatPNG && o.Format != imaging.FormatJPEG {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, o.Format)
	}
	o.Quality = imaging.ClampQuality(o.Quality)
	s.opts = o
	return nil
}

// Apply resizes the loaded image to the requested dimensions and stores the
// result, replacing the previous one.
func (s *Session) Apply(ctx context.Context) error {
	if s.handle == nil {
		return ErrNoImage
	}
	dims := s.opts.Dimensions()
	if err := dims.Validate(); err != nil {
		return fmt.Errorf("%w (got %s)", ErrInvalidDimensions, dims)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	surface, err := s.renderer.Resize(s.handle, dims)
	if err != nil {
		return err
	}
	result, err := s.encoder.Encode(surface, imaging.FormatPNG, 0)
	if err != nil {
		return err
	}

	s.result = result
	s.state = StateTransformed

	log.WithFields(log.Fields{
		"file":      s.fileName,
		"width":     dims.Width,
		"height":    dims.Height,
		"resampler": s.renderer.Resampler().Name(),
		"state":     s.state,
	}).Debug("transform applied")
	return nil
}

// Download converts the render result to the requested format and saves it
// as "<base><suffix>.<ext>".
func (s *Session) Download(ctx context.Context) (*Export, error) {
	if s.result == nil {
		return nil, ErrNoResult
	}

	converted, err := s.encoder.Convert(ctx, s.result, s.opts.Format, s.opts.Quality)
	if err != nil {
		return nil, err
	}

	filename := imaging.ExportName(s.fileName, s.opts.Format, s.suffix)
	path, err := s.exporter.Save(converted, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", filename, err)
	}
	s.exports++

	log.WithFields(log.Fields{
		"path":   path,
		"format": converted.Format,
		"width":  converted.Width,
		"height": converted.Height,
		"bytes":  len(converted.Data),
	}).Info("image exported")

	return &Export{
		Path:     path,
		Filename: filename,
		Format:   converted.Format,
		Width:    converted.Width,
		Height:   converted.Height,
		Bytes:    len(converted.Data),
	}, nil
}

// Reset drops the image and render result and returns to StateEmpty.
// Options are kept.
func (s *Session) Reset() {
	s.handle = nil
	s.preview = nil
	s.result = nil
	s.fileName = ""
	s.state = StateEmpty
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	st := Status{
		State:    s.state.String(),
		FileName: s.fileName,
		Options:  s.opts,
		Exports:  s.exports,
	}
	if s.handle != nil {
		info := s.handle.Info()
		st.Source = &info
	}
	if s.result != nil {
		d := s.result.Dimensions()
		st.Result = &d
	}
	return st
}

// User-facing messages.
const (
	MsgNoImage           = "Please upload an image first."
	MsgNoResult          = "Please apply a transformation before downloading."
	MsgInvalidDimensions = "Width and height must be positive."
	MsgInvalidFormat     = "Output format must be PNG or JPEG."
	MsgDecode            = "Could not load the image file. Please try a different file."
	MsgSurface           = "Could not allocate a drawing surface for that size."
	MsgEncode            = "Failed to convert and download image."
	MsgUnknown           = "Something went wrong. Please try again."
)

// UserMessage turns an error from a Session operation into a short message
// for the user. It returns "" for a nil error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoImage):
		return MsgNoImage
	case errors.Is(err, ErrNoResult):
		return MsgNoResult
	case errors.Is(err, ErrInvalidDimensions):
		return MsgInvalidDimensions
	case errors.Is(err, ErrInvalidFormat):
		return MsgInvalidFormat
	}

	var e *imaging.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case imaging.ErrDecode:
			return MsgDecode
		case imaging.ErrSurface:
			return MsgSurface
		case imaging.ErrEncode:
			return MsgEncode
		case imaging.ErrUsage:
			return MsgUnknown
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return MsgUnknown
	}
	// Save failures are reported like conversion failures.
	return MsgEncode
}
