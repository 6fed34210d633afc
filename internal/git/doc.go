// Package git fetches a site source tree from a remote repository.
//
// Clones are shallow and single-branch by default and land in a directory
// owned by the caller (see internal/workspace). Transient transport failures
// are retried with backoff; everything else is classified once and returned.
package git
