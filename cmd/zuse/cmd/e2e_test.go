package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const relayCircuit = `(zuse 1
  (power V1 (at 0 0) (rot r0))
  (wire W1 (at 0 0) (to 1 0))
  (coil K1 (at 1 0) (rot r0) (poles 1))
  (switch S1 (at 4 0) (rot r0))
)
`

// resetFlags restores flag variables between runs of the shared root command.
func resetFlags(dir string) {
	verbose = false
	cfgFile = filepath.Join(dir, "missing.yaml")
	infoJSON, infoKiCad = false, false
	simSteps, simToggles, simXLSX, simMetrics, simQuiet = 10, nil, "", false, false
	exportPNG, exportPDF = "", ""
	exportWidth, exportHeight, exportScale = 1024, 768, 1
	exportTheme, exportSteps, exportNoGrid = "", 0, false
	fmtWrite, fmtCheck = false, false
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(dir)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommandsE2E(t *testing.T) {
	dir := t.TempDir()
	circuit := writeFile(t, dir, "relay.zse", relayCircuit)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "info summary",
			args:        []string{"info", circuit},
			wantContain: []string{"Components: 4", "coil: K1", "power: V1", "switch: S1"},
		},
		{
			name:        "info json",
			args:        []string{"info", "--json", circuit},
			wantContain: []string{`"net_count"`, `"multi_pin_nets": 1`},
		},
		{
			name:        "info kicad",
			args:        []string{"info", "--kicad", circuit},
			wantContain: []string{"(export (version D)", "(comp (ref K1))"},
		},
		{
			name:        "sim",
			args:        []string{"sim", "--steps", "4", circuit},
			wantContain: []string{"coils [K1]", "Steps: 4", "K1 coil", "duty 100.0%", "duty  75.0%"},
		},
		{
			name:        "sim toggle",
			args:        []string{"sim", "-q", "--steps", "2", "--toggle", "S1:2", circuit},
			wantContain: []string{"S1", "duty  50.0%"},
		},
		{
			name:        "sim metrics",
			args:        []string{"sim", "-q", "--steps", "3", "--metrics", circuit},
			wantContain: []string{"zuse_sim_steps_total 3", "zuse_sim_starts_total 1"},
		},
		{
			name:    "sim toggle of a coil",
			args:    []string{"sim", "--toggle", "K1:1", circuit},
			wantErr: true,
		},
		{
			name:    "sim bad toggle",
			args:    []string{"sim", "--toggle", "S1", circuit},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"info", filepath.Join(dir, "nope.zse")},
			wantErr: true,
		},
		{
			name:        "tree",
			args:        []string{"tree", circuit},
			wantContain: []string{"Top level expressions: 1"},
		},
		{
			name:    "export without output",
			args:    []string{"export", circuit},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, dir, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v\n%s", tt.wantErr, err, out)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	messy := "; relay\n(zuse 1 (coil K1 (poles 1) (at 1 0)) (power V1 (at 0 0)))"
	path := writeFile(t, dir, "messy.zse", messy)

	if _, err := run(t, dir, "fmt", "--check", path); err == nil {
		t.Errorf("expected --check to fail on a non canonical file")
	}

	out, err := run(t, dir, "fmt", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "(zuse 1\n  (coil K1 (at 1 0) (rot r0) (poles 1))\n  (power V1 (at 0 0) (rot r0))\n)\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}

	if _, err := run(t, dir, "fmt", "-w", path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != want {
		t.Errorf("file not rewritten:\n%s", data)
	}
	if _, err := run(t, dir, "fmt", "--check", path); err != nil {
		t.Errorf("canonical file failed --check: %v", err)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	circuit := writeFile(t, dir, "relay.zse", relayCircuit)
	pngPath := filepath.Join(dir, "out.png")
	pdfPath := filepath.Join(dir, "out.pdf")

	out, err := run(t, dir, "export", circuit, "--png", pngPath, "--pdf", pdfPath,
		"--width", "320", "--height", "200", "--scale", "2", "--steps", "2", "--theme", "dark")
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 400 {
		t.Errorf("expected 640x400, got %v", img.Bounds())
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected a PDF file")
	}

	if _, err := run(t, dir, "export", circuit, "--png", pngPath, "--theme", "sepia"); err == nil {
		t.Errorf("expected an error for an unknown theme")
	}
}
