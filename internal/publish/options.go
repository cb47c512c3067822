package publish

import (
	"path"
	"path/filepath"
)

// Documented defaults for Options.
const (
	DefaultArtifactName = "K-matrix.html"
	DefaultStaticDir    = "_static"
	DefaultSourceRoot   = "."
)

// Options names the artifact and where it goes. Zero fields take the defaults.
type Options struct {
	// ArtifactName is the file name of the artifact inside SourceRoot.
	ArtifactName string
	// StaticDir is the static-assets directory, relative to SourceRoot.
	StaticDir string
	// SourceRoot is the directory both paths resolve against; the working directory by default.
	SourceRoot string
}

// WithDefaults returns a copy of o with empty fields filled in.
func (o Options) WithDefaults() Options {
	if o.ArtifactName == "" {
		o.ArtifactName = DefaultArtifactName
	}
	if o.StaticDir == "" {
		o.StaticDir = DefaultStaticDir
	}
	if o.SourceRoot == "" {
		o.SourceRoot = DefaultSourceRoot
	}
	return o
}

// SourcePath is the filesystem path of the artifact.
func (o Options) SourcePath() string {
	return filepath.Join(o.SourceRoot, o.ArtifactName)
}

// DestinationDir is the filesystem path of the static-assets directory.
func (o Options) DestinationDir() string {
	return filepath.Join(o.SourceRoot, o.StaticDir)
}

// DestinationPath is the filesystem path the artifact is copied to.
func (o Options) DestinationPath() string {
	return filepath.Join(o.DestinationDir(), o.ArtifactName)
}

// PublishedPath is the path reported to the caller: relative to SourceRoot,
// forward slashes, e.g. "_static/K-matrix.html".
func (o Options) PublishedPath() string {
	return path.Join(filepath.ToSlash(filepath.Clean(o.StaticDir)), o.ArtifactName)
}
