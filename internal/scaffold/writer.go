package scaffold

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// ErrExists reports that a scaffold target is already present.
var ErrExists = stdErrors.New("file already exists")

// writeNew writes data to base/rel and returns the full path.
//
// rel must stay under base. Parent directories are created as needed and an
// existing file is never overwritten: the returned error then wraps ErrExists.
func writeNew(fsys afero.Fs, base, rel, data string) (string, error) {
	if base == "" {
		return "", errors.UsageError("target directory is required").Build()
	}
	if rel == "" {
		return "", errors.UsageError("output path is required").Build()
	}

	cleanRel := filepath.Clean(rel)
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", errors.ValidationError("output path escapes target directory").WithContext("path", rel).Build()
	}
	full := filepath.Join(base, cleanRel)

	if err := fsys.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", errors.WrapError(err, errors.CategoryIO, "create directory").WithContext("path", filepath.Dir(full)).Build()
	}
	if ok, _ := afero.Exists(fsys, full); ok {
		return "", errors.WrapError(ErrExists, errors.CategoryValidation, "file already exists").WithContext("path", full).Build()
	}

	f, err := fsys.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if stdErrors.Is(err, os.ErrExist) {
			return "", errors.WrapError(ErrExists, errors.CategoryValidation, "file already exists").WithContext("path", full).Build()
		}
		return "", errors.WrapError(err, errors.CategoryIO, "create file").WithContext("path", full).Build()
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteString(data); err != nil {
		return "", errors.WrapError(err, errors.CategoryIO, "write file").WithContext("path", full).Build()
	}
	return full, nil
}
