// Package scan selects the files a gate run analyzes: changed paths from the
// hook event or a directory walk, filtered through ignore rules, with a
// language and module class attached to each survivor.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Language identifies what toolchain applies to a file.
type Language string

const (
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
)

// File is one scannable input with its detected language and module class.
type File struct {
	Path     string
	Language Language
	Class    string // "backend" or "frontend", drives coverage thresholds
}

// languageByExt maps file extensions to languages.
var languageByExt = map[string]Language{
	".py":  LangPython,
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
}

// skipDirs are never scanned regardless of gitignore state. Generated and
// vendored trees produce findings nobody can act on.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"coverage":     true,
}

// DetectLanguage returns the language for a path, or "" when the extension
// is not recognized.
func DetectLanguage(path string) Language {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

// ClassOf maps a language to its module class.
func ClassOf(lang Language) string {
	if lang == LangPython {
		return "backend"
	}
	return "frontend"
}

// Collect resolves the given paths (files or directories) into the set of
// scannable files. Unsupported extensions and ignored paths are dropped
// silently; a missing path is an error.
func Collect(paths []string) ([]File, error) {
	var out []File
	seen := make(map[string]bool)

	add := func(path string) {
		lang := DetectLanguage(path)
		if lang == "" || seen[path] {
			return
		}
		seen[path] = true
		out = append(out, File{Path: path, Language: lang, Class: ClassOf(lang)})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		ignore := loadIgnore(p)
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if ignore != nil {
				if rel, rerr := filepath.Rel(p, path); rerr == nil && ignore.MatchesPath(rel) {
					return nil
				}
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// loadIgnore compiles the directory's .gitignore, if present.
func loadIgnore(dir string) *gitignore.GitIgnore {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	ign, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return ign
}

// ByLanguage groups files by language for adapter dispatch.
func ByLanguage(files []File) map[Language][]File {
	groups := make(map[Language][]File)
	for _, f := range files {
		groups[f.Language] = append(groups[f.Language], f)
	}
	return groups
}
