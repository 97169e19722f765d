// Package imaging provides the image operations behind the editor: decoding
// files into handles, rendering handles onto off-screen surfaces, encoding
// surfaces, and saving the encoded result.
//
// Data flows one way:
//
//	bytes -> Decode -> *Handle -> Renderer.Resize / Renderer.Crop -> *Surface
//	      -> Encoder.Encode / Encoder.Convert -> *Encoded -> Exporter.Save
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. A CropArea is given by its
// top-left corner and its size.
//
// # Surfaces
//
// A Surface is always an *image.NRGBA whose bounds start at (0,0). Surfaces
// larger than MaxSurfacePixels cannot be allocated.
//
// # Resampling
//
// Resize scales with a named Resampler. "bilinear" (the default), "bicubic",
// "lanczos" and "nearest" use github.com/disintegration/imaging filters;
// "bild-linear", "xdraw-catmullrom" and "nfnt-lanczos3" use bild,
// golang.org/x/image/draw and nfnt/resize respectively. Every resampler
// produces exactly the requested size. Aspect ratio is never preserved
// automatically.
//
// # Encodings
//
// PNG is lossless and ignores quality. JPEG takes a quality in [0,1]
// (DefaultJPEGQuality is 0.92); values outside the range are clamped.
// Transparent pixels are composited over the encoder background for JPEG.
//
// # Error Handling
//
// Every failure is an *Error whose kind is one of ErrDecode, ErrSurface,
// ErrEncode or ErrUsage:
//   - ErrDecode: unreadable or unsupported bytes
//   - ErrSurface: a surface could not be allocated or drawn
//   - ErrEncode: a conversion could not re-decode or re-encode its input
//   - ErrUsage: missing image, non-positive dimensions, crop out of bounds
//
// # Thread Safety
//
// Handles, Encoded values and Renderer/Encoder instances are immutable and
// safe for concurrent use. A Surface must not be written concurrently.
package imaging
