package definition

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
)

const articleYAML = `
type: article
title: Article
pages:
  - id: page1
    title: Content
  - id: page2
    title: Keywords
fields:
  - name: title
    page: page1
    minOccurs: 1
    validations:
      - kind: required
  - name: keyword
    page: page2
    maxOccurs: 5
    collectionBase: true
`

const multiJSON = `{
  "dialogs": {
    "contact": {"fields": [{"name": "email", "minOccurs": 1, "maxOccurs": 1}]},
    "survey":  {"title": "Survey", "fields": [{"name": "answer", "maxOccurs": 3}]}
  }
}`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"dialogs/article.yaml": {Data: []byte(articleYAML)},
		"dialogs/multi.json":   {Data: []byte(multiJSON)},
		"dialogs/README.md":    {Data: []byte("ignored")},
	}

	catalog, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"article", "contact", "survey"}, catalog.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	article, ok := catalog.Dialog("article")
	if !ok {
		t.Fatalf("article missing")
	}
	want := []model.Definition{
		{
			Name: "title", Page: "page1", MinOccurs: 1, MaxOccurs: 1,
			Validations: []model.ValidationRule{{Kind: "required"}},
		},
		{Name: "keyword", Page: "page2", MaxOccurs: 5, CollectionBase: true},
	}
	if diff := cmp.Diff(want, article.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"page1", "page2"}, article.PageIDs()); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}
	if catalog.Source("contact") != "dialogs/multi.json" {
		t.Fatalf("unexpected source %q", catalog.Source("contact"))
	}
}

func TestLoadFSNil(t *testing.T) {
	catalog, err := LoadFS(nil)
	if err != nil || !catalog.Empty() {
		t.Fatalf("expected empty catalog, got %v %v", catalog, err)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "  ",
		"no dialogs":     "title: nothing here",
		"invalid bounds": "type: x\nfields:\n  - name: a\n    minOccurs: 3\n    maxOccurs: 1\n",
		"unknown page":   "type: x\npages: [{id: p1}]\nfields:\n  - name: a\n    page: p9\n",
		"garbage":        "{not: [valid",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc), name+".yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFSDuplicateDialog(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("type: article\nfields: [{name: a}]\n")},
		"b.yaml": {Data: []byte("type: article\nfields: [{name: b}]\n")},
	}
	_, err := LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate dialog") {
		t.Fatalf("expected duplicate dialog error, got %v", err)
	}
}
