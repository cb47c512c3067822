package config

import (
	"net/url"
	"strings"
)

// URLs are the links derived from the repository section.
type URLs struct {
	Repository string // e.g. https://github.com/org/repo
	Binder     string // Binder launch URL for the docs folder
	Colab      string // Colab URL for the branch
}

// URLs derives repository, Binder, and Colab links.
func (c *Config) URLs() URLs {
	r := c.Repository
	host := strings.TrimRight(r.Host, "/")
	binderHub := strings.TrimRight(c.Theme.LaunchButtons.BinderHubURL, "/")
	if binderHub == "" {
		binderHub = "https://mybinder.org"
	}
	colab := strings.TrimRight(c.Theme.LaunchButtons.ColabURL, "/")
	if colab == "" {
		colab = "https://colab.research.google.com"
	}

	return URLs{
		Repository: host + "/" + url.PathEscape(r.Organization) + "/" + url.PathEscape(r.Name),
		Binder: binderHub + "/v2/gh/" + url.PathEscape(r.Organization) + "/" + url.PathEscape(r.Name) + "/" +
			url.PathEscape(r.Branch) + "?filepath=" + url.QueryEscape(r.PathToDocs),
		Colab: colab + "/github/" + url.PathEscape(r.Organization) + "/" + url.PathEscape(r.Name) + "/blob/" +
			url.PathEscape(r.Branch),
	}
}

// ResolvedIconLinks returns the icon links with repository placeholders expanded.
func (c *Config) ResolvedIconLinks() []IconLink {
	out := make([]IconLink, len(c.Theme.IconLinks))
	for i, link := range c.Theme.IconLinks {
		link.URL = expandPlaceholders(link.URL, c.Repository)
		out[i] = link
	}
	return out
}

func expandPlaceholders(s string, r RepositoryConfig) string {
	if !strings.Contains(s, "{") {
		return s
	}
	return strings.NewReplacer(
		"{host}", strings.TrimRight(r.Host, "/"),
		"{organization}", r.Organization,
		"{repository}", r.Name,
		"{branch}", r.Branch,
		"{path_to_docs}", r.PathToDocs,
	).Replace(s)
}
