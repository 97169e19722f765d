package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor/internal/editor"
	"github.com/ironsheep/image-editor/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_editor_load", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// The message is the user-facing text for the failure; data carries the
// underlying error.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.WithField("tool", params.Name).Infof("tool failed: %v", err)
		return s.errorResponse(req.ID, -32000, toolErrorMessage(err), err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// argumentError marks malformed tool arguments.
type argumentError struct{ err error }

func (e argumentError) Error() string { return "invalid arguments: " + e.err.Error() }
func (e argumentError) Unwrap() error { return e.err }

func toolErrorMessage(err error) string {
	var argErr argumentError
	if errors.As(err, &argErr) {
		return "Invalid arguments"
	}
	var toolErr unknownToolError
	if errors.As(err, &toolErr) {
		return "Tool execution failed"
	}
	return editor.UserMessage(err)
}

type unknownToolError string

func (e unknownToolError) Error() string { return "unknown tool: " + string(e) }

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return argumentError{err}
	}
	return nil
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies the optional parameters to the session
//  3. Runs the session operation
//  4. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Editor Session
	case "image_editor_load":
		return s.handleEditorLoad(ctx, args)
	case "image_editor_configure":
		return s.handleEditorConfigure(args)
	case "image_editor_apply":
		return s.handleEditorApply(ctx, args)
	case "image_editor_download":
		return s.handleEditorDownload(ctx, args)
	case "image_editor_status":
		return s.session.Status(), nil
	case "image_editor_preview":
		return s.handleEditorPreview(args)
	case "image_editor_reset":
		s.session.Reset()
		return s.session.Status(), nil

	// Stateless Utilities
	case "image_dimensions":
		return s.handleImageDimensions(ctx, args)
	case "image_crop":
		return s.handleImageCrop(ctx, args)

	default:
		return nil, unknownToolError(name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Editor Session Handlers ===

type editorLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleEditorLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a editorLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, argumentError{fmt.Errorf("path is required")}
	}
	if err := s.session.LoadFile(ctx, a.Path); err != nil {
		return nil, err
	}
	return s.session.Status(), nil
}

type editorOptionArgs struct {
	Width   *int     `json:"width"`
	Height  *int     `json:"height"`
	Format  *string  `json:"format"`
	Quality *float64 `json:"quality"`
}

// applyOptions sets every option present in a. Nothing changes when the
// format is invalid.
func (s *Server) applyOptions(a editorOptionArgs) error {
	opts := s.session.Options()
	if a.Format != nil {
		f, err := imaging.ParseFormat(*a.Format)
		if err != nil {
			return fmt.Errorf("%w: %v", editor.ErrInvalidFormat, err)
		}
		opts.Format = f
	}
	if a.Width != nil {
		opts.Width = *a.Width
	}
	if a.Height != nil {
		opts.Height = *a.Height
	}
	if a.Quality != nil {
		opts.Quality = *a.Quality
	}
	return s.session.SetOptions(opts)
}

func (s *Server) handleEditorConfigure(args json.RawMessage) (interface{}, error) {
	var a editorOptionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.applyOptions(a); err != nil {
		return nil, err
	}
	return s.session.Status(), nil
}

func (s *Server) handleEditorApply(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a editorOptionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.applyOptions(editorOptionArgs{Width: a.Width, Height: a.Height}); err != nil {
		return nil, err
	}
	if err := s.session.Apply(ctx); err != nil {
		return nil, err
	}
	return s.session.Status(), nil
}

func (s *Server) handleEditorDownload(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a editorOptionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.applyOptions(editorOptionArgs{Format: a.Format, Quality: a.Quality}); err != nil {
		return nil, err
	}
	return s.session.Download(ctx)
}

type editorPreviewArgs struct {
	Which string `json:"which"`
}

// PreviewResult contains a PNG rendering of the original or processed image.
type PreviewResult struct {
	Which       string `json:"which"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleEditorPreview(args json.RawMessage) (interface{}, error) {
	var a editorPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Which == "" {
		a.Which = "processed"
	}

	var enc *imaging.Encoded
	switch a.Which {
	case "original":
		preview := s.session.Preview()
		if preview == nil {
			return nil, editor.ErrNoImage
		}
		var err error
		if enc, err = s.encoder.Encode(preview, imaging.FormatPNG, 0); err != nil {
			return nil, err
		}
	case "processed":
		if enc = s.session.Result(); enc == nil {
			return nil, editor.ErrNoResult
		}
	default:
		return nil, argumentError{fmt.Errorf("which must be original or processed, got %q", a.Which)}
	}

	return &PreviewResult{
		Which:       a.Which,
		Width:       enc.Width,
		Height:      enc.Height,
		ImageBase64: enc.Base64(),
		MimeType:    enc.Format.MimeType(),
	}, nil
}

// === Stateless Utility Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	h, err := imaging.DecodeFile(ctx, a.Path, nil)
	if err != nil {
		return nil, err
	}
	return h.Info(), nil
}

type imageCropArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleImageCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	h, err := imaging.DecodeFile(ctx, a.Path, nil)
	if err != nil {
		return nil, err
	}

	area := imaging.CropArea{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	if err := area.Within(h.Info().Width, h.Info().Height); err != nil {
		return nil, argumentError{err}
	}
	surface, err := s.renderer.Crop(h, area)
	if err != nil {
		return nil, err
	}
	enc, err := s.encoder.Encode(surface, imaging.FormatPNG, 0)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Width:       enc.Width,
		Height:      enc.Height,
		ImageBase64: enc.Base64(),
		MimeType:    enc.Format.MimeType(),
	}, nil
}
