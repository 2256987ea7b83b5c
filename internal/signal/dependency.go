package signal

import (
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Dependency manifest and lockfile names, by ecosystem.
var manifestFiles = map[string]string{
	"go.mod":            "go",
	"go.sum":            "go",
	"package.json":      "npm",
	"package-lock.json": "npm",
	"yarn.lock":         "npm",
	"pnpm-lock.yaml":    "npm",
	"cargo.toml":        "cargo",
	"cargo.lock":        "cargo",
	"requirements.txt":  "pip",
	"pipfile":           "pip",
	"pipfile.lock":      "pip",
	"pyproject.toml":    "pip",
	"poetry.lock":       "pip",
	"gemfile":           "gem",
	"gemfile.lock":      "gem",
}

// IsManifest reports whether the path is a dependency manifest or lockfile.
func IsManifest(path string) bool {
	_, ok := manifestFiles[strings.ToLower(baseName(path))]
	return ok
}

// dependencySignals emits one signal per new dependency added to a
// manifest file, or a single bare signal when the manifest changed but no
// individual dependency could be parsed out.
func dependencySignals(path string, added []string) []model.ChangeSignal {
	eco, ok := manifestFiles[strings.ToLower(baseName(path))]
	if !ok {
		return nil
	}

	var signals []model.ChangeSignal
	for _, line := range added {
		if dep := parseDepLine(line, eco); dep != "" {
			signals = append(signals, model.ChangeSignal{
				Tag:    model.SignalDependency,
				File:   path,
				Detail: eco + ": " + dep,
			})
		}
	}

	if len(signals) == 0 {
		signals = append(signals, model.ChangeSignal{Tag: model.SignalDependency, File: path})
	}
	return signals
}

func parseDepLine(line, eco string) string {
	line = strings.TrimSpace(line)

	switch eco {
	case "go":
		// require github.com/foo/bar v1.2.3, or a line inside a require block
		if strings.HasPrefix(line, "require ") {
			parts := strings.Fields(line)
			if len(parts) >= 3 {
				return parts[1]
			}
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 && strings.Contains(parts[0], "/") && !strings.HasPrefix(parts[0], "//") {
			return parts[0]
		}

	case "npm":
		// "dep-name": "^1.0.0"
		line = strings.TrimSuffix(line, ",")
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			name := strings.Trim(parts[0], `" `)
			if name != "" && !strings.HasPrefix(name, "@types/") &&
				name != "dependencies" && name != "devDependencies" &&
				name != "peerDependencies" && name != "name" && name != "version" {
				return name
			}
		}

	case "cargo":
		// dep-name = "1.0"
		if strings.Contains(line, "=") && !strings.HasPrefix(line, "[") && !strings.HasPrefix(line, "#") {
			parts := strings.SplitN(line, "=", 2)
			name := strings.TrimSpace(parts[0])
			if name != "" && name != "name" && name != "version" && name != "edition" &&
				!strings.Contains(name, ".") {
				return name
			}
		}

	case "pip":
		// package==1.0.0 or package>=1.0
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			return ""
		}
		for _, sep := range []string{"==", ">=", "<=", "!=", "~=", ">"} {
			if idx := strings.Index(line, sep); idx > 0 {
				return strings.TrimSpace(line[:idx])
			}
		}
		if !strings.Contains(line, " ") {
			return line
		}

	case "gem":
		// gem 'name', '~> 1.0'
		if strings.HasPrefix(line, "gem ") {
			parts := strings.SplitN(line, ",", 2)
			name := strings.TrimPrefix(parts[0], "gem ")
			return strings.Trim(name, `'" `)
		}
	}

	return ""
}

func baseName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx >= 0 {
		return path[idx+1:]
	}
	return path
}
