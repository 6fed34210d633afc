// Package build provides the canonical site build pipeline for blogbuilder.
//
// A build copies the allow-listed parts of a source tree into a fresh output
// directory, overlays the embedded default assets, post-processes every text
// file (includes, page tokens, domain rewriting), generates the catalog pages
// and finally strips build-only inputs such as sidecars and partials from the
// output. The CLI, the preview server and tests all route through Service.
//
// A dry run executes the same stages against a read-only view of the source
// and an in-memory output filesystem, so every inclusion and transformation
// decision matches a real run without touching disk.
package build
