package docrefs

import (
	"fmt"
	"regexp"
	"strings"
)

// Excluder skips documentation paths matching the generator's exclude
// patterns. "**" crosses directory boundaries, "*" and "?" do not.
type Excluder struct {
	patterns []*regexp.Regexp
}

// NewExcluder compiles glob patterns. Blank patterns are ignored.
func NewExcluder(globs []string) (*Excluder, error) {
	out := make([]*regexp.Regexp, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		r, err := regexp.Compile(globToRegex(g))
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %s: %w", g, err)
		}
		out = append(out, r)
	}
	return &Excluder{patterns: out}, nil
}

// Excluded reports whether the slash-separated relative path matches a pattern.
func (e *Excluder) Excluded(rel string) bool {
	if e == nil {
		return false
	}
	for _, rx := range e.patterns {
		if rx.MatchString(rel) {
			return true
		}
	}
	return false
}

// globToRegex converts a shell-style glob to an anchored regex.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '.', '+', '(', ')', '|', '^', '$', '{', '}', '[', ']', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString("$")
	return b.String()
}
