package process

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"cssexpr/config"
	"cssexpr/css"
	"cssexpr/expr"
	"cssexpr/host"
	"cssexpr/state"
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeEpub(t *testing.T, name string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, n := range []string{"mimetype", "OEBPS/styles/page10.css", "OEBPS/styles/page9.css", "OEBPS/text.xhtml"} {
		content, ok := files[n]
		if !ok {
			continue
		}
		fw, err := w.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, name, buf.String())
}

func names(sources []source) []string {
	var out []string
	for _, s := range sources {
		out = append(out, s.name)
	}
	return out
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a10.css"), "a{}")
	writeFile(t, filepath.Join(dir, "a9.css"), "b{}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeEpub(t, filepath.Join(dir, "sub", "book.epub"), map[string]string{
		"mimetype":                "application/epub+zip",
		"OEBPS/styles/page10.css": "c{}",
		"OEBPS/styles/page9.css":  "d{}",
		"OEBPS/text.xhtml":        "<html/>",
	})
	single := filepath.Join(t.TempDir(), "single.css")
	writeFile(t, single, "e{}")

	t.Run("directory", func(t *testing.T) {
		sources, err := readSources(context.Background(), []string{dir}, zaptest.NewLogger(t))
		if err != nil {
			t.Fatalf("readSources() error: %v", err)
		}
		book := filepath.Join(dir, "sub", "book.epub")
		want := []string{
			filepath.Join(dir, "a9.css"),
			filepath.Join(dir, "a10.css"),
			filepath.Join(book, "OEBPS", "styles", "page9.css"),
			filepath.Join(book, "OEBPS", "styles", "page10.css"),
		}
		if diff := cmp.Diff(want, names(sources)); diff != "" {
			t.Errorf("sources mismatch (-want +got):\n%s", diff)
		}
		if string(sources[2].data) != "d{}" {
			t.Errorf("archived stylesheet content = %q", sources[2].data)
		}
	})

	t.Run("mixed with failures", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.css")
		sources, err := readSources(context.Background(), []string{single, missing, filepath.Join(dir, "a9.css")}, zap.NewNop())
		if err == nil || !strings.Contains(err.Error(), "missing.css") {
			t.Errorf("expected error for missing file, got %v", err)
		}
		if diff := cmp.Diff([]string{single, filepath.Join(dir, "a9.css")}, names(sources)); diff != "" {
			t.Errorf("sources mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := readSources(ctx, []string{dir}, zap.NewNop()); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

const sheet = `@import url("base.css");
:root { --w: 50%; }
.a { width: var(--w); color: red }
.b { margin: 1em 2px !important }
@media print { .c { height: 10% } }
`

func TestScan(t *testing.T) {
	sources := []source{{name: "s.css", data: []byte(sheet)}}
	parser := css.NewParser(zaptest.NewLogger(t))

	var buf bytes.Buffer
	if err := writeFindings(&buf, scan(sources, parser, false)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("s.css\t.a\twidth: var(--w)\n", buf.String()); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := writeFindings(&buf, scan(sources, parser, true)); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"s.css\t:root\t--w: 50%",
		"s.css\t.a\twidth: var(--w)",
		"s.css\t.b\tmargin: 1em 2px !important",
		"s.css\t@media print\t.c\theight: 10%",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("normalizing scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSelectors(t *testing.T) {
	sources := []source{
		{name: "s.css", data: []byte(sheet)},
		{name: "t.css", data: []byte(".z { width: 1em; width: 10px } .y { top: var(--t) } .y { left: 5% }")},
	}

	var buf bytes.Buffer
	if err := writeFindings(&buf, scanSelectors(sources, css.NewParser(zaptest.NewLogger(t)), true)); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"s.css\t.a\twidth: var(--w)",
		"s.css\t.b\tmargin: 1em 2px !important",
		"s.css\t@media print\t.c\theight: 10%",
		"s.css\t:root\t--w: 50%",
		"t.css\t.y\ttop: var(--t)",
		"t.css\t.y\tleft: 5%",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
}

func testHost(t *testing.T, vars map[string]string) *host.Static {
	t.Helper()
	h, err := host.NewStatic(&config.EnvironmentConfig{
		BaseURL:      "https://example.com/",
		Viewport:     config.SizeConfig{Width: 1000, Height: 500},
		FontSize:     10,
		RootFontSize: 16,
		Element:      config.RectConfig{Width: 200, Height: 100},
		Length:       1,
		Vars:         vars,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestEvaluate(t *testing.T) {
	log := zaptest.NewLogger(t)
	s := css.NewParser(log).Parse([]byte(`.box {
  width: 10%;
  margin: 10% 1em;
  color: red;
  --gap: 2em;
  top: var(--x);
  height: 1cm 10%;
  background: url("img/bg.png");
}`))

	changed, err := evaluate(s, testHost(t, nil), expr.NewEvaluator(log, true), true, log)
	if changed != 3 {
		t.Errorf("changed = %d, want 3", changed)
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("unexpected errors: %v", err)
	}
	if !strings.Contains(errs[0].Error(), "top: var(--x)") || !errors.Is(errs[0], errFunctionSyntax) {
		t.Errorf("errs[0] = %v, want function syntax error for top", errs[0])
	}
	if !strings.Contains(errs[1].Error(), "height") {
		t.Errorf("errs[1] = %v, want height error", errs[1])
	}

	want := `.box {
  width: 20px;
  margin: 10px 10px;
  color: red;
  --gap: 2em;
  top: var(--x);
  height: 1cm 10%;
  background: url("https://example.com/img/bg.png");
}
`
	if diff := cmp.Diff(want, s.String()); diff != "" {
		t.Errorf("evaluated stylesheet mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateFunctionSyntax(t *testing.T) {
	log := zaptest.NewLogger(t)
	s := css.NewParser(log).Parse([]byte(`.a { width: calc(10px + 5px); height: var(--h, 5em); margin: calc(1px); }`))

	changed, err := evaluate(s, testHost(t, nil), expr.NewEvaluator(log, true), true, log)
	if changed != 0 {
		t.Errorf("changed = %d, want 0", changed)
	}
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("errors = %v, want 3", err)
	}
	for _, e := range errs {
		if !errors.Is(e, errFunctionSyntax) {
			t.Errorf("error = %v, want %v", e, errFunctionSyntax)
		}
	}
	want := `.a {
  width: calc(10px + 5px);
  height: var(--h, 5em);
  margin: calc(1px);
}
`
	if diff := cmp.Diff(want, s.String()); diff != "" {
		t.Errorf("stylesheet changed (-want +got):\n%s", diff)
	}
}

func TestEvalSources(t *testing.T) {
	log := zaptest.NewLogger(t)
	env := &state.LocalEnv{
		Cfg: &config.Config{Evaluation: config.EvaluationConfig{Normalize: true, StylesheetVars: true}},
		Log: log,
	}
	sources := []source{
		{name: "one.css", data: []byte(".a { left: 2em }")},
		{name: "two.css", data: []byte(".b { padding: 5% }")},
	}

	var buf bytes.Buffer
	if err := evalSources(context.Background(), sources, testHost(t, nil), env, &buf, log); err != nil {
		t.Fatalf("evalSources() error: %v", err)
	}
	want := `/* one.css */
.a {
  left: 20px;
}

/* two.css */
.b {
  padding: 5px 10px;
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalSources_Imports(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)
	env := &state.LocalEnv{Cfg: &config.Config{}, Log: log}

	var buf bytes.Buffer
	sources := []source{{name: "s.css", data: []byte(sheet)}}
	if err := evalSources(context.Background(), sources, testHost(t, nil), env, &buf, log); err != nil {
		t.Fatalf("evalSources() error: %v", err)
	}
	entries := logs.FilterMessage("Imported stylesheets are not evaluated").All()
	if len(entries) != 1 {
		t.Fatalf("import warnings = %d, want 1", len(entries))
	}
	if diff := cmp.Diff([]any{"base.css"}, entries[0].ContextMap()["imports"]); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveVars(t *testing.T) {
	h := testHost(t, map[string]string{
		"--b10": "10%",
		"--b9":  "2em",
		"--bad": "1cm",
		"--url": `url("a.png")`,
	})
	h.AddVars(map[string]string{"--delay": "0.5s"})

	var buf bytes.Buffer
	err := resolveVars(&buf, h, expr.NewEvaluator(zaptest.NewLogger(t), true), expr.DimWidth)

	want := strings.Join([]string{
		"--b9: 20px",
		"--b10: 20px",
		"--delay: 500ms",
		`--url: url("https://example.com/a.png")`,
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if errs := multierr.Errors(err); len(errs) != 1 || !strings.HasPrefix(errs[0].Error(), "--bad:") {
		t.Errorf("unexpected errors: %v", err)
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want expr.Dimension
		err  bool
	}{
		{"", expr.DimNone, false},
		{"w", expr.DimWidth, false},
		{"Height", expr.DimHeight, false},
		{"z", expr.DimDepth, false},
		{"diagonal", expr.DimNone, true},
	}
	for _, tt := range tests {
		got, err := ParseDimension(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseDimension(%q) = %v, %v", tt.in, got, err)
		}
	}
}
