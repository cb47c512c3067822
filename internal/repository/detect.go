// Package repository derives the site's repository coordinates from the
// local git checkout.
package repository

import (
	stderrors "errors"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// OriginRemote is the remote whose URL identifies the hosted repository.
const OriginRemote = "origin"

// Info describes the hosted repository of a checkout.
type Info struct {
	Host         string // scheme and host, e.g. https://github.com
	Organization string // owner or group path
	Name         string
	Branch       string // empty on a detached HEAD
	RemoteURL    string
}

// Detect opens the git repository enclosing dir and reads the origin remote
// and the current branch.
func Detect(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open git repository").
			WithContext("dir", dir).
			UserAction().
			Build()
	}

	remote, err := repo.Remote(OriginRemote)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "read origin remote").
			WithContext("dir", dir).
			UserAction().
			Build()
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, errors.GitError("origin remote has no URL").WithContext("dir", dir).Build()
	}

	info, err := ParseRemoteURL(urls[0])
	if err != nil {
		return nil, err
	}

	branch, err := currentBranch(repo)
	if err != nil {
		return nil, err
	}
	info.Branch = branch
	return info, nil
}

// currentBranch reads HEAD without resolving it so unborn branches are reported too.
func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", errors.WrapError(err, errors.CategoryGit, "read HEAD").Build()
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return "", nil
}

// ParseRemoteURL splits an https, ssh://, or scp-style remote URL into host,
// organization, and repository name. The host is always reported as https.
func ParseRemoteURL(raw string) (*Info, error) {
	raw = strings.TrimSpace(raw)
	var host, repoPath string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryGit, "parse remote URL").
				WithContext("url", raw).
				Build()
		}
		host, repoPath = u.Hostname(), u.Path
	case strings.Contains(raw, ":"):
		// scp-like: [user@]host:org/repo.git
		hostPart, p, _ := strings.Cut(raw, ":")
		if at := strings.LastIndex(hostPart, "@"); at >= 0 {
			hostPart = hostPart[at+1:]
		}
		host, repoPath = hostPart, p
	}

	repoPath = strings.TrimSuffix(strings.Trim(repoPath, "/"), ".git")
	org, name, ok := cutLast(repoPath, "/")
	if host == "" || !ok || org == "" || name == "" {
		return nil, errors.GitError("remote URL does not name a hosted repository").
			WithContext("url", raw).
			UserAction().
			Build()
	}
	return &Info{
		Host:         "https://" + host,
		Organization: org,
		Name:         name,
		RemoteURL:    raw,
	}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", s, false
	}
	return s[:i], s[i+len(sep):], true
}

// Apply copies detected values into r for every field that is empty or still
// carries the documented default. Defaults are filled in before detection, so
// an explicit value equal to the default is replaced too. It reports the
// names of the fields it changed.
func (i *Info) Apply(r *config.RepositoryConfig) []string {
	var changed []string
	set := func(name string, dst *string, def, val string) {
		if val == "" || *dst == val {
			return
		}
		if *dst == "" || *dst == def {
			*dst = val
			changed = append(changed, name)
		}
	}
	set("host", &r.Host, config.DefaultHost, i.Host)
	set("organization", &r.Organization, config.DefaultOrganization, i.Organization)
	set("name", &r.Name, config.DefaultRepoName, i.Name)
	set("branch", &r.Branch, config.DefaultBranch, i.Branch)
	return changed
}
