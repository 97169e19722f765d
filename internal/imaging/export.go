package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix is appended to the original base name of exported files.
const DefaultSuffix = "-edited"

// ExportName derives the download filename from the original file name:
// "<base><suffix>.<ext>". The directory and last extension of original are
// dropped; a name without an extension is used whole and an empty base
// becomes "download".
func ExportName(original string, f Format, suffix string) string {
	base := filepath.Base(original)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" {
		base = "download"
	}
	return base + suffix + "." + f.Extension()
}

// Exporter hands encoded data to the host as a saved file.
type Exporter interface {
	// Save stores e under filename and returns where it went.
	Save(e *Encoded, filename string) (string, error)
}

// DirExporter writes files into a directory.
type DirExporter struct {
	Dir string
}

// Save writes e to Dir/filename through a temporary file so a failed write
// never leaves a partial file behind. Existing files are replaced.
func (d DirExporter) Save(e *Encoded, filename string) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nothing to save")
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(e.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}
