package tmpl

import (
	"strings"
	"testing"
	"text/template"
)

func TestRender(t *testing.T) {
	out, err := Render("hello {{ .Name }}", map[string]string{"Name": "world"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("got %q, want %q", out, "hello world")
	}
}

func TestRenderFuncs(t *testing.T) {
	funcs := template.FuncMap{
		"upper": strings.ToUpper,
	}

	out, err := Render("{{ upper .Name }}", map[string]string{"Name": "world"}, funcs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "WORLD" {
		t.Errorf("got %q, want %q", out, "WORLD")
	}
}

func TestRenderMissingKey(t *testing.T) {
	_, err := Render("{{ .Missing }}", map[string]string{}, nil)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	_, err := Render("{{ .Unclosed", nil, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
}
