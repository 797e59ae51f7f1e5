package source

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/rollseg/pkg"
	"github.com/ardnew/rollseg/roll"
)

// Stdin is the name that refers to standard input.
const Stdin = "-"

// PathEnv returns the name of the environment variable listing roll
// directories, e.g. "ROLLSEG_PATH".
func PathEnv() string { return pkg.EnvPrefix() + "PATH" }

// SearchPath returns the directories searched for relative roll names: dirs
// in order, followed by the entries of [PathEnv]. Empty and repeated entries
// are dropped.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	var path []string

	for _, dir := range filepath.SplitList(list) {
		if dir != "" && !slices.Contains(path, dir) {
			path = append(path, dir)
		}
	}

	return path
}

// Resolve returns the path of the roll named name. Absolute names, names of
// existing files, and [Stdin] are returned unchanged; other names are joined
// to each directory of path in turn.
//
// The error matches [roll.ErrReadInput] and [fs.ErrNotExist] if no candidate
// exists.
func Resolve(name string, path []string) (string, error) {
	if name == Stdin || filepath.IsAbs(name) || isFile(name) {
		return name, nil
	}

	for _, dir := range path {
		if cand := filepath.Join(dir, name); isFile(cand) {
			return cand, nil
		}
	}

	return "", roll.ErrReadInput.
		Wrap(&fs.PathError{Op: "resolve", Path: name, Err: fs.ErrNotExist}).
		With(slog.String("name", name), slog.Any("path", path))
}

func isFile(name string) bool {
	fi, err := os.Stat(name)

	return err == nil && fi.Mode().IsRegular()
}
