// Package artifact inspects the pre-built HTML page before it is published.
package artifact

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Resource is an external or relative resource the page loads.
type Resource struct {
	URL      string `json:"url"`
	Tag      string `json:"tag"`      // script, link, img, iframe
	External bool   `json:"external"` // absolute URL with a host
}

// Report summarizes an HTML artifact.
type Report struct {
	Title     string     `json:"title"`
	Size      int64      `json:"size"`
	Resources []Resource `json:"resources"`
}

// RelativeResources returns resources that resolve against the static-assets
// directory once the page is published there.
func (r *Report) RelativeResources() []Resource {
	var out []Resource
	for _, res := range r.Resources {
		if !res.External {
			out = append(out, res)
		}
	}
	return out
}

// Inspect parses the HTML file at path.
func Inspect(path string) (*Report, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read artifact").
			WithContext("path", path).
			Build()
	}
	return InspectBytes(data)
}

// InspectBytes parses an in-memory HTML document.
func InspectBytes(data []byte) (*Report, error) {
	report, err := inspect(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	report.Size = int64(len(data))
	return report, nil
}

func inspect(r io.Reader) (*Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML artifact").Build()
	}

	report := &Report{Resources: []Resource{}}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if report.Title == "" {
					report.Title = strings.TrimSpace(textContent(n))
				}
			case "script", "img", "iframe":
				report.addResource(n.Data, attr(n, "src"))
			case "link":
				report.addResource(n.Data, attr(n, "href"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return report, nil
}

func (r *Report) addResource(tag, ref string) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return
	}
	r.Resources = append(r.Resources, Resource{URL: ref, Tag: tag, External: isExternal(ref)})
}

func isExternal(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Host != ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
