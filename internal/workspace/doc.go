// Package workspace manages the scratch directory a remote site source is
// cloned into. A workspace lives for one command and is removed afterwards.
package workspace
