package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var javaExts = []string{".java"}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "Main.java")
	if err := os.WriteFile(existing, []byte("class Main {}"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name: "existing java file",
			path: existing,
		},
		{
			name:    "wrong extension",
			path:    filepath.Join(dir, "Main.kt"),
			wantErr: ErrUnsupportedExtension,
		},
		{
			name:    "no extension",
			path:    filepath.Join(dir, "Main"),
			wantErr: ErrUnsupportedExtension,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "Missing.java"),
			wantErr: ErrFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.path, javaExts)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.java")
	content := "// header\nclass A {}"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, err := Load(path, javaExts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != content {
		t.Errorf("Load() = %q, want %q", got, content)
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pkg.java")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	_, err := Load(dir, javaExts)
	if err == nil {
		t.Fatal("Load() of a directory should fail")
	}
	if errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("Load() error = %v, want a read error", err)
	}
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.java")
	if err := os.WriteFile(path, []byte("// Mois\xe8s\nclass A {}"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, err := Load(path, javaExts)
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("Load() error = %v, want %v", err, ErrInvalidUTF8)
	}
	if got != "" {
		t.Errorf("Load() = %q, want empty", got)
	}
}

func TestValidate_Messages(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "Missing.java")

	tests := []struct {
		name string
		path string
		exts []string
		want string
	}{
		{
			name: "java only",
			path: filepath.Join(dir, "Main.kt"),
			exts: javaExts,
			want: "A java source file was expected",
		},
		{
			name: "several extensions",
			path: filepath.Join(dir, "Main.py"),
			exts: []string{".java", ".kt"},
			want: "A source file was expected (.java, .kt)",
		},
		{
			name: "missing file",
			path: missing,
			exts: javaExts,
			want: "file not found " + missing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.path, tt.exts)
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("Validate() error = %q, want %q", got, tt.want)
			}
		})
	}
}
