package interp

// This file defines the built-in environment available to all expressions:
// the outermost, always-present layer of the evaluation namespace. The
// environment is lazily initialized once per process via builtinCache and
// cloned on every access so callers may mutate the returned map without
// affecting the shared cache.
//
// Built-in names can be shadowed by document entries and library aliases.

import (
	"maps"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ardnew/mung"

	"github.com/tronglh241/liberyacs/node"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	builtinOnce  sync.Once
	builtinCache map[string]any
)

// Builtins returns a clone of the lazily-initialized, process-scoped
// environment containing built-in variables and functions.
func Builtins() map[string]any {
	builtinOnce.Do(func() {
		builtinCache = map[string]any{
			// System information.
			"platform": getPlatform(),
			"hostname": getHostname(),
			"user":     getUser(),

			// Working directory.
			"cwd": getCwd,

			// Sequence constructor producing tuple-tagged sequences.
			"tuple": makeTuple,

			// Filesystem predicates.
			"file": map[string]any{
				"exists": fileExists,
				"isDir":  fileIsDir,
			},

			// Path manipulation functions.
			"path": map[string]any{
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},

			// PATH-like string manipulation via mung.
			"mung": map[string]any{
				"prefix": mungPrefix,
			},

			// Process environment access.
			"env": getEnv,
		}
	})

	return maps.Clone(builtinCache)
}

// BuiltinKeys returns the top-level names in the built-in environment.
func BuiltinKeys() []string {
	env := Builtins()
	keys := make([]string, 0, len(env))

	for k := range env {
		keys = append(keys, k)
	}

	return keys
}

// ---------------------------------------------------------------------------
// System information helpers
// ---------------------------------------------------------------------------

// platform contains string identifiers for the host operating system and
// instruction set architecture, following Go conventions.
type platform struct {
	OS   string
	Arch string
}

func getPlatform() platform {
	return platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getUser() *user.User {
	u, err := user.Current()
	if err != nil {
		return nil
	}

	return u
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

// ---------------------------------------------------------------------------
// Sequence constructor
// ---------------------------------------------------------------------------

func makeTuple(items ...any) *node.Sequence {
	return node.NewTuple(items...)
}

// ---------------------------------------------------------------------------
// Filesystem predicates
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// ---------------------------------------------------------------------------
// Path manipulation functions
// ---------------------------------------------------------------------------

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// ---------------------------------------------------------------------------
// PATH-like string manipulation (mung)
// ---------------------------------------------------------------------------

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// ---------------------------------------------------------------------------
// Process environment access
// ---------------------------------------------------------------------------

func getEnv(key string) string {
	return os.Getenv(key)
}
