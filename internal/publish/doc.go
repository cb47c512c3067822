// Package publish makes an optional pre-built artifact available to the
// documentation site's static file server.
//
// Before the documentation generator runs, Publisher checks whether the
// artifact (K-matrix.html by default) exists in the source root. If it does,
// the file is copied byte-for-byte into the static-assets directory
// (_static by default) and the destination path is returned so the caller
// can merge it into the list of statically exposed files. If it does not,
// nothing is written and the result is empty.
//
// The destination directory is never created: a missing directory, a
// permission failure, or an I/O error fails the publish and is returned to
// the caller with the os error still in the chain.
package publish
