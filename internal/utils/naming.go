package utils

import (
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"
	"unicode"
)

// AssumedPackageName returns the package name an import path is assumed to
// declare, following the goimports convention: the last path element, skipping
// a major-version suffix, with a leading "go-" or trailing "-go" removed and
// everything from the first non-identifier character dropped.
//
//	github.com/rs/zerolog          -> zerolog
//	gopkg.in/yaml.v3               -> yaml
//	github.com/go-chi/chi/v5       -> chi
//	github.com/mattn/go-isatty     -> isatty
func AssumedPackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." {
			base = path.Base(dir)
		}
	}

	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")

	if i := strings.IndexFunc(base, notIdentifier); i >= 0 {
		base = base[:i]
	}
	if base == "" || !token.IsIdentifier(base) {
		return "pkg"
	}
	return base
}

func isMajorVersion(s string) bool {
	if !strings.HasPrefix(s, "v") || len(s) < 2 {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

func notIdentifier(ch rune) bool {
	return !('a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' ||
		'0' <= ch && ch <= '9' ||
		ch == '_' ||
		ch >= utf8RuneSelf && (unicode.IsLetter(ch) || unicode.IsDigit(ch)))
}

const utf8RuneSelf = 0x80

// IsPredeclared reports whether name is a predeclared Go identifier
// (int, string, error, any, true, nil, len, ...)
func IsPredeclared(name string) bool {
	return types.Universe.Lookup(name) != nil
}
