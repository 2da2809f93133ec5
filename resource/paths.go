package resource

import (
	"path"
	"strings"
)

func isAbs(p string) bool {
	return strings.Contains(p, "://") || strings.HasPrefix(p, "/")
}

// resolvePath resolves a dependency path written in the file at base.
func resolvePath(base, p string) string {
	if isAbs(p) {
		return p
	}
	scheme, rest := splitScheme(base)
	dir := path.Dir(rest)
	if dir == "." {
		dir = ""
	}
	joined := path.Join(dir, p)
	if scheme == "" {
		return joined
	}
	return scheme + "://" + joined
}

// relativePath returns target relative to the directory of base when both
// share a scheme, and target unchanged otherwise.
func relativePath(base, target string) string {
	bs, brest := splitScheme(base)
	ts, trest := splitScheme(target)
	if bs != ts || bs == "" {
		return target
	}
	from := strings.Split(path.Dir(brest), "/")
	if len(from) == 1 && from[0] == "." {
		from = nil
	}
	to := strings.Split(trest, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	parts := make([]string, 0, len(from)-i+len(to)-i)
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	return strings.Join(parts, "/")
}
