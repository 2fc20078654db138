package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formdialog/internal/openapi/loader"
	"github.com/goliatone/go-formdialog/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-formdialog/pkg/openapi"
)

func TestLoaderParserIntegration(t *testing.T) {
	ctx := context.Background()

	data, err := os.ReadFile(filepath.Join("testdata", "articles.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	tmp := t.TempDir()
	filePath := filepath.Join(tmp, "articles.yaml")
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		t.Fatalf("write temp fixture: %v", err)
	}

	p := parser.New(pkgopenapi.NewParserOptions())

	fileLoader := loader.New(pkgopenapi.NewLoaderOptions())
	docFile, err := fileLoader.Load(ctx, pkgopenapi.SourceFromFile(filePath))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	assertArticleOperation(t, ctx, p, docFile)

	fsLoader := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fstest.MapFS{
		"specs/articles.yaml": &fstest.MapFile{Data: data},
	})))
	docFS, err := fsLoader.Load(ctx, pkgopenapi.SourceFromFS("specs/articles.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	assertArticleOperation(t, ctx, p, docFS)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	src, err := pkgopenapi.SourceFromURL(server.URL)
	if err != nil {
		t.Fatalf("url source: %v", err)
	}
	if _, err := fileLoader.Load(ctx, src); err == nil {
		t.Fatalf("expected http loading to be disabled without a client")
	}

	httpLoader := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	docHTTP, err := httpLoader.Load(ctx, src)
	if err != nil {
		t.Fatalf("load http: %v", err)
	}
	assertArticleOperation(t, ctx, p, docHTTP)
}

func assertArticleOperation(t *testing.T, ctx context.Context, p pkgopenapi.Parser, doc pkgopenapi.Document) {
	t.Helper()

	operations, err := p.Operations(ctx, doc)
	if err != nil {
		t.Fatalf("parse %s: %v", doc.Location(), err)
	}
	op, ok := operations["createArticle"]
	if !ok {
		t.Fatalf("createArticle missing from %s", doc.Location())
	}

	dialogModel, err := pkgopenapi.DialogFromOperation(op)
	if err != nil {
		t.Fatalf("dialog from operation: %v", err)
	}
	if dialogModel.Type != "article" {
		t.Fatalf("dialog type = %q, want article", dialogModel.Type)
	}
	if got := len(dialogModel.Pages); got != 2 {
		t.Fatalf("pages = %d, want 2", got)
	}
	if got := len(dialogModel.Fields); got != 3 {
		t.Fatalf("fields = %d, want 3", got)
	}
	keyword := dialogModel.Fields[1]
	if keyword.Name != "keyword" || !keyword.CollectionBase || keyword.MaxOccurs != 3 || keyword.Page != "page2" {
		t.Fatalf("unexpected keyword definition %+v", keyword)
	}
}
