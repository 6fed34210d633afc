package content

import (
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/flatjson"
)

// SidecarSuffix is appended to a post file name to locate its metadata.
const SidecarSuffix = ".meta.json"

// Sidecar keys read by the scanner.
const (
	KeyDescription  = "PAGE_DESCRIPTION"
	KeyTags         = "TAGS"
	KeyCategoryPath = "CATEGORY_PATH"
	KeySeries       = "SERIES"
	KeySeriesOrder  = "SERIES_ORDER"
	KeyOGImage      = "OG_IMAGE"
)

// ReadSidecar loads <htmlPath>.meta.json. Keys are trimmed and upper-cased;
// for keys that collide after normalization the last one in the file wins.
// ok is false when the sidecar does not exist or cannot be read.
func ReadSidecar(fsys afero.Fs, htmlPath string) (map[string]string, bool) {
	data, err := afero.ReadFile(fsys, htmlPath+SidecarSuffix)
	if err != nil {
		return nil, false
	}
	return ParseSidecar(string(data)), true
}

// ParseSidecar normalizes the flat JSON text of a sidecar.
func ParseSidecar(text string) map[string]string {
	out := map[string]string{}
	for _, p := range flatjson.Pairs(text) {
		k := strings.ToUpper(strings.TrimSpace(p.Key))
		if k == "" {
			continue
		}
		out[k] = p.Value
	}
	return out
}
