package cmd

import (
	"bytes"
	"context"
	goimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `
engine:
  frame_interval: 1ms
  root_width: 200
  root_height: 100
log:
  level: debug
`

const testTree = `
tag: Column
id: col
width: "100"
space: 5
cross_align: center
background: "#FF0000"
children:
  - {tag: Box, id: a, width: "20", height: "10", background: "#00FF00"}
  - {tag: Box, id: b, width: "30", height: "10"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLayoutPrintsGeometry(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ace.yaml", testConfig)
	tree := writeFile(t, dir, "tree.yaml", testTree)

	out, logs, err := execute(t, "--config", cfg, "layout", tree)
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, logs)
	}
	for _, want := range []string{
		"Stage id=",
		"  Column id=col depth=2",
		"    Box id=a depth=3 frame=Rect (40.00, 0.00) - [20.00 x 10.00]",
		"    Box id=b depth=3 frame=Rect (35.00, 15.00) - [30.00 x 10.00]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(logs, "tree settled") {
		t.Errorf("logs missing settle record:\n%s", logs)
	}
}

func TestLayoutRootSizeFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ace.yaml", testConfig)
	tree := writeFile(t, dir, "tree.yaml", "tag: Box\nid: full\nwidth: 100%\nheight: 100%\n")

	out, _, err := execute(t, "--config", cfg, "layout", "--width", "64", "--height", "32", tree)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "Box id=full depth=2 frame=Rect (0.00, 0.00) - [64.00 x 32.00]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestLayoutWritesPNG(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ace.yaml", testConfig)
	tree := writeFile(t, dir, "tree.yaml", testTree)
	pngPath := filepath.Join(dir, "out.png")

	if _, logs, err := execute(t, "--config", cfg, "layout", "--png", pngPath, tree); err != nil {
		t.Fatalf("layout: %v\n%s", err, logs)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("bounds = %v", b)
	}
}

func TestLayoutErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ace.yaml", testConfig)
	tests := []struct {
		name string
		args []string
	}{
		{"missing tree", []string{"--config", cfg, "layout", filepath.Join(dir, "nope.yaml")}},
		{"unknown key", []string{"--config", cfg, "layout", writeFile(t, dir, "bad.yaml", "tag: Box\nbogus: 1\n")}},
		{"unknown tag", []string{"--config", cfg, "layout", writeFile(t, dir, "tag.yaml", "tag: Grid\n")}},
		{"missing config", []string{"--config", filepath.Join(dir, "missing.yaml"), "layout", "-"}},
		{"no args", []string{"--config", cfg, "layout"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func writePNGFile(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xFF, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return writeFile(t, dir, "img.png", buf.String())
}

func TestImageTracesStates(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ace.yaml", testConfig)
	src := writePNGFile(t, dir, 40, 20)

	out, logs, err := execute(t, "--config", cfg, "image", "--width", "20", "--height", "20", "--fit", "contain", src)
	if err != nil {
		t.Fatalf("image: %v\n%s", err, logs)
	}
	order := []string{"DATA_LOADING", "DATA_READY", "[40.00 x 20.00]", "CANVAS_IMAGE_MAKING", "LOAD_SUCCESS", "canvas size", "fit contain"}
	rest := out
	for _, want := range order {
		i := strings.Index(rest, want)
		if i < 0 {
			t.Fatalf("output missing %q after previous states:\n%s", want, out)
		}
		rest = rest[i+len(want):]
	}
}

func TestImageErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ace.yaml", testConfig)
	src := writePNGFile(t, dir, 4, 4)

	if _, _, err := execute(t, "--config", cfg, "image", "--fit", "sideways", src); err == nil {
		t.Error("unknown fit accepted")
	}
	out, _, err := execute(t, "--config", cfg, "image", filepath.Join(dir, "missing.png"))
	if err == nil {
		t.Fatal("missing file loaded")
	}
	if !strings.Contains(out, "LOAD_FAIL") {
		t.Errorf("output missing LOAD_FAIL:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "acelayout "+Version) {
		t.Errorf("version output = %q", out)
	}
}
