// Package docrefs finds documentation pages that reference a published
// static file, so a missing artifact can be caught before the site build.
package docrefs

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Kind is the syntax a reference was written in.
type Kind string

const (
	KindLink       Kind = "link"
	KindImage      Kind = "image"
	KindAuto       Kind = "autolink"
	KindDefinition Kind = "definition"
	KindHTML       Kind = "html"
)

// Reference is one occurrence of the target in a documentation page.
type Reference struct {
	File        string // slash path relative to the scanned root
	Kind        Kind
	Destination string
}

// Scanner walks a documentation tree.
type Scanner struct {
	excluder *Excluder
	md       goldmark.Markdown
}

// NewScanner returns a scanner that skips paths matching excludes.
func NewScanner(excludes []string) (*Scanner, error) {
	ex, err := NewExcluder(excludes)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid exclude pattern").Build()
	}
	return &Scanner{excluder: ex, md: goldmark.New()}, nil
}

// Scan is NewScanner(nil).Scan(root, target).
func Scan(root, target string) ([]Reference, error) {
	s, err := NewScanner(nil)
	if err != nil {
		return nil, err
	}
	return s.Scan(root, target)
}

// Scan returns every link, image, or embedded HTML reference under root whose
// destination ends with target (a slash path such as "_static/K-matrix.html").
// Markdown files and the markdown cells of notebooks are read.
func (s *Scanner) Scan(root, target string) ([]Reference, error) {
	target = path.Clean(strings.TrimPrefix(filepath.ToSlash(target), "/"))
	refs := make([]Reference, 0)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if s.excluder.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		var sources [][]byte
		switch strings.ToLower(filepath.Ext(p)) {
		case ".md", ".markdown":
			data, err := os.ReadFile(p) // #nosec G304 -- walking the docs tree
			if err != nil {
				return err
			}
			sources = [][]byte{data}
		case ".ipynb":
			data, err := os.ReadFile(p) // #nosec G304 -- walking the docs tree
			if err != nil {
				return err
			}
			cells, err := notebookMarkdown(data)
			if err != nil {
				return errors.WrapError(err, errors.CategoryValidation, "parse notebook").
					WithContext("path", rel).
					Build()
			}
			sources = cells
		default:
			return nil
		}

		for _, src := range sources {
			for _, ref := range s.extract(src) {
				if matches(ref.Destination, target) {
					ref.File = rel
					refs = append(refs, ref)
				}
			}
		}
		return nil
	})
	if err != nil {
		var classified *errors.ClassifiedError
		if stderrors.As(err, &classified) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "scan documentation").
			WithContext("root", root).
			Build()
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].File < refs[j].File })
	return refs, nil
}

func (s *Scanner) extract(source []byte) []Reference {
	ctx := parser.NewContext()
	root := s.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	out := make([]Reference, 0)
	linked := make(map[string]bool)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			out = append(out, Reference{Kind: KindAuto, Destination: string(node.URL(source))})
		case *gmast.Image:
			linked[string(node.Destination)] = true
			out = append(out, Reference{Kind: KindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			linked[string(node.Destination)] = true
			out = append(out, Reference{Kind: KindLink, Destination: string(node.Destination)})
		case *gmast.HTMLBlock:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
			}
			if node.HasClosure() {
				buf.Write(node.ClosureLine.Value(source))
			}
			out = append(out, htmlReferences(buf.Bytes())...)
		case *gmast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(source))
			}
			out = append(out, htmlReferences(buf.Bytes())...)
		}
		return gmast.WalkContinue, nil
	})

	// Reference-style links already surfaced as links; only unused
	// definitions add anything.
	for _, def := range ctx.References() {
		if dest := string(def.Destination()); !linked[dest] {
			out = append(out, Reference{Kind: KindDefinition, Destination: dest})
		}
	}
	return out
}

// htmlReferences returns src and href attribute values of raw HTML.
func htmlReferences(fragment []byte) []Reference {
	out := make([]Reference, 0)
	z := html.NewTokenizer(bytes.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			for {
				key, val, more := z.TagAttr()
				if k := string(key); k == "src" || k == "href" || k == "data" {
					out = append(out, Reference{Kind: KindHTML, Destination: string(val)})
				}
				if !more {
					break
				}
			}
		}
	}
}

// matches reports whether dest points at target, ignoring query, fragment,
// and any leading directories. Both sides are compared in Unicode NFC.
func matches(dest, target string) bool {
	dest = norm.NFC.String(strings.TrimSpace(dest))
	target = norm.NFC.String(target)
	if dest == "" {
		return false
	}
	if u, err := url.Parse(dest); err == nil {
		dest = u.Path
	} else if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return false
	}
	dest = path.Clean(dest)
	return dest == target || strings.HasSuffix(dest, "/"+target)
}

type notebook struct {
	Cells []struct {
		CellType string          `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	} `json:"cells"`
}

// notebookMarkdown returns the markdown cells of a Jupyter notebook. Cell
// source is either a string or a list of lines.
func notebookMarkdown(data []byte) ([][]byte, error) {
	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(nb.Cells))
	for _, c := range nb.Cells {
		if c.CellType != "markdown" || len(c.Source) == 0 {
			continue
		}
		var lines []string
		if err := json.Unmarshal(c.Source, &lines); err != nil {
			var single string
			if err := json.Unmarshal(c.Source, &single); err != nil {
				return nil, err
			}
			lines = []string{single}
		}
		out = append(out, []byte(strings.Join(lines, "")))
	}
	return out, nil
}
