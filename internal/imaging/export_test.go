package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestExportName(t *testing.T) {
	tests := []struct {
		original string
		format   Format
		want     string
	}{
		{"photo.png", FormatJPEG, "photo-edited.jpeg"},
		{"photo.jpg", FormatPNG, "photo-edited.png"},
		{"/home/user/pics/holiday.final.jpeg", FormatPNG, "holiday.final-edited.png"},
		{"noext", FormatPNG, "noext-edited.png"},
		{".hidden", FormatJPEG, ".hidden-edited.jpeg"},
		{"", FormatPNG, "download-edited.png"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			if got := ExportName(tt.original, tt.format, DefaultSuffix); got != tt.want {
				t.Errorf("ExportName(%q): got %s, want %s", tt.original, got, tt.want)
			}
		})
	}
}

func TestExportName_CustomSuffix(t *testing.T) {
	if got := ExportName("a.png", FormatPNG, "_small"); got != "a_small.png" {
		t.Errorf("got %s, want a_small.png", got)
	}
}

func TestDirExporter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	enc := &Encoded{Data: []byte("payload"), Format: FormatPNG, Width: 1, Height: 1}

	path, err := DirExporter{Dir: dir}.Save(enc, "x-edited.png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(dir, "x-edited.png") {
		t.Errorf("path: got %s", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if !bytes.Equal(got, enc.Data) {
		t.Errorf("content: got %q, want %q", got, enc.Data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("output dir should hold only the export, found %d entries", len(entries))
	}
}

func TestDirExporter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	exp := DirExporter{Dir: dir}

	for i := 0; i < 2; i++ {
		data := []byte(fmt.Sprintf("version %d", i))
		if _, err := exp.Save(&Encoded{Data: data, Format: FormatPNG}, "same.png"); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	got, _ := os.ReadFile(filepath.Join(dir, "same.png"))
	if string(got) != "version 1" {
		t.Errorf("content: got %q, want %q", got, "version 1")
	}
}

func TestDirExporter_StripsDirectories(t *testing.T) {
	dir := t.TempDir()

	path, err := DirExporter{Dir: dir}.Save(&Encoded{Data: []byte("x"), Format: FormatPNG}, "../../escape.png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("file written outside output dir: %s", path)
	}
}

func TestError_Kinds(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"decode", DecodeError("read", cause), ErrDecode},
		{"surface", SurfaceError("allocate", cause), ErrSurface},
		{"encode", EncodeError("convert", cause), ErrEncode},
		{"usage", UsageError("apply", "no image %s", "loaded"), ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			for _, other := range []error{ErrDecode, ErrSurface, ErrEncode, ErrUsage} {
				if other != tt.kind && errors.Is(tt.err, other) {
					t.Errorf("%v should not match %v", tt.err, other)
				}
			}
		})
	}

	if !errors.Is(DecodeError("read", cause), cause) {
		t.Error("DecodeError should unwrap to its cause")
	}

	nested := EncodeError("convert", DecodeError("decode", cause))
	var e *Error
	if !errors.As(nested, &e) || e.Kind != ErrEncode {
		t.Errorf("outermost kind: got %v, want ErrEncode", e)
	}
}
