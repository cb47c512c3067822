package docrefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const target = "_static/K-matrix.html"

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestScanFindsMarkdownAndHTMLReferences(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", `# International K-matrix day

Open the [interactive matrix](_static/K-matrix.html#top) in a new tab.

<iframe src="_static/K-matrix.html" width="100%" height="600"></iframe>

See also [the programme](https://indico.cern.ch/event/1397619).
`)
	writeDoc(t, root, "talks/summary.md", "![preview](../_static/K-matrix.html?v=2)\n")
	writeDoc(t, root, "unrelated.md", "[other](_static/other.html) and [lookalike](my_static/K-matrix.html)\n")

	refs, err := Scan(root, target)
	require.NoError(t, err)
	require.Equal(t, []Reference{
		{File: "index.md", Kind: KindLink, Destination: "_static/K-matrix.html#top"},
		{File: "index.md", Kind: KindHTML, Destination: "_static/K-matrix.html"},
		{File: "talks/summary.md", Kind: KindImage, Destination: "../_static/K-matrix.html?v=2"},
	}, refs)
}

func TestScanReadsNotebookMarkdownCells(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "demo.ipynb", `{
  "cells": [
    {"cell_type": "markdown", "source": ["Explore the ", "[matrix](/_static/K-matrix.html)\n"]},
    {"cell_type": "code", "source": "print('_static/K-matrix.html')"},
    {"cell_type": "markdown", "source": "<a href=\"_static/K-matrix.html\">open</a>"}
  ]
}`)

	refs, err := Scan(root, target)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, KindLink, refs[0].Kind)
	require.Equal(t, KindHTML, refs[1].Kind)
}

func TestScanSkipsExcludedAndHiddenPaths(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "_build/html/index.md", "[m](_static/K-matrix.html)\n")
	writeDoc(t, root, "nb/.ipynb_checkpoints/demo-checkpoint.md", "[m](_static/K-matrix.html)\n")
	writeDoc(t, root, ".venv/readme.md", "[m](_static/K-matrix.html)\n")
	writeDoc(t, root, "kept.md", "[m]: _static/K-matrix.html\n")

	s, err := NewScanner([]string{"**.ipynb_checkpoints", "*build"})
	require.NoError(t, err)
	refs, err := s.Scan(root, target)
	require.NoError(t, err)
	require.Equal(t, []Reference{{File: "kept.md", Kind: KindDefinition, Destination: "_static/K-matrix.html"}}, refs)
}

func TestScanNoReferences(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "# Nothing here\n")

	refs, err := Scan(root, target)
	require.NoError(t, err)
	require.NotNil(t, refs)
	require.Empty(t, refs)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "docs"), target)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanBrokenNotebook(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "broken.ipynb", "{not json")
	_, err := Scan(root, target)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestExcluder(t *testing.T) {
	ex, err := NewExcluder([]string{"**.ipynb_checkpoints", "*build", "draft?.md", " "})
	require.NoError(t, err)

	cases := map[string]bool{
		".ipynb_checkpoints":           true,
		"a/b/.ipynb_checkpoints":       true,
		"_build":                       true,
		"sub/_build":                   false,
		"draft1.md":                    true,
		"draft10.md":                   false,
		"drafts/x.md":                  false,
		"talks/ipynb_checkpoints.html": false,
	}
	for rel, want := range cases {
		require.Equal(t, want, ex.Excluded(rel), rel)
	}

	var nilEx *Excluder
	require.False(t, nilEx.Excluded("anything"))
}

func TestScanMatchesUnicodeNormalizationForms(t *testing.T) {
	root := t.TempDir()
	// "Matrix-Übersicht.html" with a decomposed U+0055 U+0308.
	writeDoc(t, root, "index.md", "[de](_static/Matrix-U\u0308bersicht.html)\n")

	refs, err := Scan(root, "_static/Matrix-\u00dcbersicht.html")
	require.NoError(t, err)
	require.Len(t, refs, 1)
}

func TestScanReportsReferenceStyleLinksOnce(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "See the [K-matrix page][km].\n\n[km]: _static/K-matrix.html\n")
	writeDoc(t, root, "notes.md", "Nothing links here yet.\n\n[unused]: _static/K-matrix.html\n")

	refs, err := Scan(root, target)
	require.NoError(t, err)
	require.Equal(t, []Reference{
		{File: "index.md", Kind: KindLink, Destination: "_static/K-matrix.html"},
		{File: "notes.md", Kind: KindDefinition, Destination: "_static/K-matrix.html"},
	}, refs)
}
