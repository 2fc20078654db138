package formdialog

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formdialog/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdialog/pkg/testsupport"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected stylesheet content")
	}
}

func TestEmbeddedTemplatesContainDialog(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "dialog.tmpl"); err != nil {
		t.Fatalf("expected dialog template: %v", err)
	}
}

func TestDefaultRenderers(t *testing.T) {
	registry, err := DefaultRenderers()
	if err != nil {
		t.Fatalf("default renderers: %v", err)
	}
	renderer, err := registry.Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("default renderer = %q, want vanilla", renderer.Name())
	}
	if !registry.Has("json") {
		t.Fatal("expected json renderer")
	}
}

func TestNewServesDialog(t *testing.T) {
	m := testsupport.ArticleDialog()
	d, err := New(context.Background(), Request{Model: &m})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	mux := http.NewServeMux()
	route, err := RegisterRoutes(mux, "/admin", d)
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, route, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `data-dialog="article"`) {
		t.Fatalf("expected article dialog markup, got:\n%s", rec.Body.String())
	}
}
