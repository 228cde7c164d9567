package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Prefix returns the base name used to construct the configuration and cache
// directory paths.
//
// By default, Prefix is the base name of the executable file with these
// substitutions applied:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name,
			regexp.MustCompile(`^\.+`):             "",
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = Name
		}

		return id
	},
)

// ConfigDir returns the directory holding the user's configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory holding transient files such as the REPL
// history.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir resolves a per-user directory, falling back to a hidden directory in
// the home directory and then the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// SearchPath returns the ordered list of directories searched for JAMAL source
// files given by relative path.
//
// The list is composed of the given prefix directories, followed by the
// entries of the $JAMAL_PATH environment variable, followed by the
// "lib" subdirectory of [ConfigDir]. Empty and duplicate entries are removed.
func SearchPath(prefix ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(EnvPrefix()+"PATH")),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(func(s string) bool { return strings.TrimSpace(s) != "" }),
	).String()

	seen := make(map[string]bool)
	dirs := make([]string, 0, len(prefix)+1)

	for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if dir == "" || seen[dir] {
			continue
		}

		seen[dir] = true
		dirs = append(dirs, dir)
	}

	lib := filepath.Join(ConfigDir(), "lib")
	if !seen[lib] {
		dirs = append(dirs, lib)
	}

	return dirs
}

// FindSource locates the JAMAL source file named by path.
//
// Absolute paths, paths that exist relative to the working directory, and "-"
// (standard input) are returned unchanged. Otherwise each directory of
// [SearchPath] is tried in order, first with path itself and then with
// [Extension] appended. If nothing matches, path is returned unchanged so the
// caller reports the original name when opening it fails.
func FindSource(path string, prefix ...string) string {
	if path == "-" || filepath.IsAbs(path) || exists(path) {
		return path
	}

	for _, dir := range SearchPath(prefix...) {
		for _, name := range []string{path, path + Extension} {
			if cand := filepath.Join(dir, name); exists(cand) {
				return cand
			}
		}
	}

	return path
}

func exists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
