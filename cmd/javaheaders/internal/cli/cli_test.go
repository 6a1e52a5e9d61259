package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/scan"
	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/watch"
	"github.com/google/go-cmp/cmp"
)

// runCLI runs the command line with the user config isolated.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SRCHEADERS_EXTENSIONS", "")
	t.Setenv("SRCHEADERS_STRICT_PACKAGE", "")

	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	javaFile := writeSource(t, dir, "A.java", "package a.b;\n/* some contents */\nclass A {}")
	puppyFile := writeSource(t, dir, "P.java", "puppy;// x\n")
	ktFile := writeSource(t, dir, "K.kt", "// kotlin\nclass K")
	latin1File := writeSource(t, dir, "L.java", "// Mois\xe8s\nclass A {}")
	dirNamedJava := filepath.Join(dir, "pkg.java")
	if err := os.Mkdir(dirNamedJava, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantPrefix string
	}{
		{
			name:       "java file",
			args:       []string{javaFile},
			wantCode:   ExitOK,
			wantStdout: " some contents \n",
		},
		{
			name:       "permissive package by default",
			args:       []string{puppyFile},
			wantCode:   ExitOK,
			wantStdout: " x\n\n",
		},
		{
			name:       "strict package",
			args:       []string{"--strict-package", puppyFile},
			wantCode:   ExitOK,
			wantStdout: "\n",
		},
		{
			name:       "wrong extension",
			args:       []string{ktFile},
			wantCode:   ExitDataErr,
			wantStdout: "ERROR: A java source file was expected\n",
		},
		{
			name:       "languages flag widens extensions",
			args:       []string{"--languages", "java,kotlin", ktFile},
			wantCode:   ExitOK,
			wantStdout: " kotlin\n\n",
		},
		{
			name:       "file not found",
			args:       []string{filepath.Join(dir, "Missing.java")},
			wantCode:   ExitNoInput,
			wantStdout: "ERROR: file not found " + filepath.Join(dir, "Missing.java") + "\n",
		},
		{
			name:       "read failure",
			args:       []string{dirNamedJava},
			wantCode:   ExitDataErr,
			wantPrefix: "ERROR: problems reading file",
		},
		{
			name:       "invalid utf-8",
			args:       []string{latin1File},
			wantCode:   ExitDataErr,
			wantStdout: "ERROR: problems reading file: stream did not contain valid UTF-8\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stdout %q, stderr %q)", code, tt.wantCode, stdout, stderr)
			}
			if tt.wantPrefix != "" {
				if !strings.HasPrefix(stdout, tt.wantPrefix) {
					t.Errorf("stdout = %q, want prefix %q", stdout, tt.wantPrefix)
				}
				return
			}
			if stdout != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
		})
	}
}

func TestExtract_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"too many arguments", []string{"A.java", "B.java"}},
		{"unknown language", []string{"--languages", "cobol", "A.java"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != ExitFailure {
				t.Errorf("exit code = %d, want %d", code, ExitFailure)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if !strings.HasPrefix(stderr, "Error: ") {
				t.Errorf("stderr = %q, want an error message", stderr)
			}
		})
	}
}

func TestExtract_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	puppyFile := writeSource(t, dir, "P.groovy", "puppy;// x\n")
	configFile := writeSource(t, dir, "custom.toml", `
extensions = ["groovy"]
strict_package = true
`)

	code, stdout, _ := runCLI(t, "--config", configFile, puppyFile)
	if code != ExitOK {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "\n" {
		t.Errorf("stdout = %q, want %q", stdout, "\n")
	}

	// An explicit flag wins over the config file.
	code, stdout, _ = runCLI(t, "--config", configFile, "--strict-package=false", puppyFile)
	if code != ExitOK || stdout != " x\n\n" {
		t.Errorf("got code %d stdout %q, want 0 and %q", code, stdout, " x\n\n")
	}
}

func TestExtract_MissingConfigFile(t *testing.T) {
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "A.java")
	if code != ExitFailure {
		t.Errorf("exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stderr, "failed to read config") {
		t.Errorf("stderr = %q, want config error", stderr)
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != ExitOK {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "javaheaders dev (unknown)\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func newScanTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeSource(t, root, "a/A.java", "// MIT\nclass A {}")
	writeSource(t, root, "a/B.java", "package a;\n// MIT\nclass B {}")
	writeSource(t, root, "b/C.java", "class C {}")
	writeSource(t, root, "gen/G.java", "// generated\n")
	writeSource(t, root, "target/T.java", "// build output\n")
	return root
}

func TestScan_Text(t *testing.T) {
	root := newScanTree(t)

	code, stdout, stderr := runCLI(t, "scan", "--exclude", "gen/**", root)
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	want := "a/A.java:\n MIT\n\na/B.java:\n MIT\n\nb/C.java: (no header)\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("scan output mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_JSON(t *testing.T) {
	root := newScanTree(t)

	code, stdout, _ := runCLI(t, "scan", "--json", root)
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}

	var results []scan.Result
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	want := []string{"a/A.java", "a/B.java", "b/C.java", "gen/G.java"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("scanned paths mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_GroupJSON(t *testing.T) {
	root := newScanTree(t)

	code, stdout, _ := runCLI(t, "scan", "--group", "--json", "--exclude", "gen/**", root)
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}

	var out ScanOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}

	want := ScanOutput{
		Groups: []scan.Group{
			{Digest: scan.HashHeader(" MIT\n"), Header: " MIT\n", Paths: []string{"a/A.java", "a/B.java"}},
		},
		Missing: []string{"b/C.java"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("group output mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_GroupText(t *testing.T) {
	root := newScanTree(t)

	code, stdout, _ := runCLI(t, "scan", "--group", "--exclude", "gen/**", root)
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}

	digest := scan.HashHeader(" MIT\n")
	want := "[" + digest + "] 2 file(s):\n  a/A.java\n  a/B.java\n MIT\n\n\nNo header (1):\n  b/C.java\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("group output mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_UndecodableFile(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "builder/A.java", "// MIT\nclass A {}")
	writeSource(t, root, "builder/L.java", "// Mois\xe8s\nclass L {}")

	code, stdout, stderr := runCLI(t, "scan", "--group", root)
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	digest := scan.HashHeader(" MIT\n")
	want := "[" + digest + "] 1 file(s):\n  builder/A.java\n MIT\n\n\n" +
		"Unreadable (1):\n  builder/L.java: byte 7: stream did not contain valid UTF-8\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("group output mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_Errors(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "A.java", "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing directory", []string{"scan", filepath.Join(dir, "nope")}},
		{"file instead of directory", []string{"scan", file}},
		{"invalid exclude", []string{"scan", "--exclude", "[a", dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != ExitFailure {
				t.Errorf("exit code = %d, want %d", code, ExitFailure)
			}
		})
	}
}

func TestChangePrinter(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 14, 32, 15, 0, time.UTC)

	tests := []struct {
		name   string
		json   bool
		color  bool
		change watch.Change
		want   string
	}{
		{
			name:   "modified",
			change: watch.Change{Path: "A.java", Header: " x\n", Digest: "abc"},
			want:   "[14:32:15] ~ A.java (abc)\n",
		},
		{
			name:   "no header",
			change: watch.Change{Path: "A.java"},
			want:   "[14:32:15] ~ A.java (no header)\n",
		},
		{
			name:   "removed with color",
			color:  true,
			change: watch.Change{Path: "A.java", Digest: "abc", Removed: true},
			want:   "[14:32:15] \033[31m-\033[0m A.java\n",
		},
		{
			name:   "json",
			json:   true,
			change: watch.Change{Path: "A.java", Header: " x\n", Digest: "abc"},
			want:   `{"path":"A.java","header":" x\n","digest":"abc"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newChangePrinter(&buf, tt.json, tt.color)
			p.now = func() time.Time { return fixed }

			p.print(tt.change)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("print() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
