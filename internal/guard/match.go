package guard

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether name matches the glob pattern. Syntax is that of
// doublestar ("**" for any number of directories, {a,b} alternatives).
// A pattern without a slash is matched against the base name only.
// Leading dots are not special.
func Match(pattern, name string) bool {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	if !strings.Contains(pattern, "/") {
		name = path.Base(name)
	}
	ok, err := doublestar.Match(strings.TrimPrefix(pattern, "/"), name)
	return err == nil && ok
}
