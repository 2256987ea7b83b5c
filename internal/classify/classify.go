// Package classify categorizes changed files by path and extension.
package classify

import (
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Source extensions considered application code.
var codeExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true,
	".py": true, ".java": true, ".go": true, ".rs": true, ".rb": true,
	".php": true, ".c": true, ".h": true, ".cc": true, ".cpp": true,
	".cs": true, ".kt": true, ".swift": true, ".scala": true, ".ex": true,
	".exs": true, ".sql": true, ".sh": true, ".vue": true, ".svelte": true,
}

// Manifest and tooling files classified as config.
var configFiles = map[string]bool{
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"go.mod":            true,
	"go.sum":            true,
	"cargo.toml":        true,
	"cargo.lock":        true,
	"requirements.txt":  true,
	"pipfile":           true,
	"pipfile.lock":      true,
	"pyproject.toml":    true,
	"poetry.lock":       true,
	"gemfile":           true,
	"gemfile.lock":      true,
	"makefile":          true,
}

var infraFiles = map[string]bool{
	"dockerfile":         true,
	"docker-compose.yml": true,
	"docker-compose.yaml": true,
	"jenkinsfile":        true,
}

// File returns the category for a changed file path. Rules are evaluated
// in fixed priority order; the first match wins and unmatched paths are
// unknown, never an error.
func File(path string) model.FileCategory {
	lower := strings.ToLower(path)
	base := baseName(lower)

	switch {
	case isTest(lower):
		return model.CategoryTest
	case isDocs(lower):
		return model.CategoryDocs
	case isInfra(lower, base):
		return model.CategoryInfra
	case isConfig(lower, base):
		return model.CategoryConfig
	case isStyle(lower):
		return model.CategoryStyle
	case codeExtensions[ext(lower)]:
		return model.CategoryCode
	default:
		return model.CategoryUnknown
	}
}

// Files categorizes every changed file, keyed by path.
func Files(files []model.ChangedFile) map[string]model.FileCategory {
	out := make(map[string]model.FileCategory, len(files))
	for _, f := range files {
		out[f.Path] = File(f.Path)
	}
	return out
}

// AllAre reports whether every category in the map equals want.
// An empty map reports false.
func AllAre(categories map[string]model.FileCategory, want model.FileCategory) bool {
	if len(categories) == 0 {
		return false
	}
	for _, c := range categories {
		if c != want {
			return false
		}
	}
	return true
}

// AnyIs reports whether at least one category in the map equals want.
func AnyIs(categories map[string]model.FileCategory, want model.FileCategory) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

func isTest(path string) bool {
	return strings.Contains(path, "__tests__/") ||
		strings.Contains(path, ".test.") ||
		strings.Contains(path, ".spec.") ||
		strings.HasSuffix(path, "_test.go") ||
		strings.Contains(path, "/test/") ||
		strings.Contains(path, "/tests/")
}

func isDocs(path string) bool {
	return strings.HasSuffix(path, ".md") ||
		strings.HasSuffix(path, ".rst") ||
		strings.Contains(path, "/docs/") ||
		strings.HasPrefix(path, "docs/")
}

func isInfra(path, base string) bool {
	if infraFiles[base] {
		return true
	}
	if strings.Contains(path, ".github/workflows/") {
		return true
	}
	// YAML at repo-config locations: top level or well-known infra dirs.
	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		if !strings.Contains(path, "/") {
			return true
		}
		for _, dir := range []string{"deploy/", "infra/", "k8s/", "helm/", ".circleci/"} {
			if strings.Contains(path, dir) {
				return true
			}
		}
	}
	return strings.HasSuffix(path, ".tf")
}

func isConfig(path, base string) bool {
	if configFiles[base] {
		return true
	}
	if strings.HasPrefix(base, ".env") {
		return true
	}
	if strings.HasPrefix(base, "tsconfig") && strings.HasSuffix(base, ".json") {
		return true
	}
	return strings.HasSuffix(path, ".toml") || strings.HasSuffix(path, ".ini")
}

func isStyle(path string) bool {
	return strings.HasSuffix(path, ".css") ||
		strings.HasSuffix(path, ".scss") ||
		strings.HasSuffix(path, ".sass") ||
		strings.HasSuffix(path, ".less")
}

func ext(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[idx:]
}

func baseName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx >= 0 {
		return path[idx+1:]
	}
	return path
}
