// Package ingest loads agent result files from disk.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// resultFileSuffix is the naming convention for per-agent result files,
// e.g. security.findings.json.
const resultFileSuffix = ".findings.json"

// Load parses one agent result file. Two layouts are accepted:
//
//	{"agent": "security", "generated_at": "...", "findings": [...]}
//	[{"title": ..., "file": ...}, ...]
//
// A bare findings array takes its agent name from the filename stem.
func Load(path string) (model.AgentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.AgentResult{}, fmt.Errorf("reading agent result: %w", err)
	}

	result, err := Parse(data)
	if err != nil {
		return model.AgentResult{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if result.Agent == "" {
		result.Agent = agentFromFilename(path)
	}
	return result, nil
}

// Parse decodes agent result bytes, detecting wrapped-object vs bare-array
// layout from the first non-space byte.
func Parse(data []byte) (model.AgentResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return model.AgentResult{}, fmt.Errorf("empty agent result")
	}

	if trimmed[0] == '[' {
		var findings []model.Finding
		if err := json.Unmarshal(trimmed, &findings); err != nil {
			return model.AgentResult{}, err
		}
		return model.AgentResult{Findings: findings}, nil
	}

	var result model.AgentResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return model.AgentResult{}, err
	}
	return result, nil
}

// LoadDir loads every *.findings.json file in dir, sorted by filename so
// the returned order is stable. A file that fails to parse is logged and
// skipped; it does not abort the rest of the directory.
func LoadDir(dir string) ([]model.AgentResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading results dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), resultFileSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	var results []model.AgentResult
	for _, p := range paths {
		r, err := Load(p)
		if err != nil {
			log.Printf("ingest: skipping %s: %v", filepath.Base(p), err)
			continue
		}
		results = append(results, r)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no agent result files (*%s) in %s", resultFileSuffix, dir)
	}
	return results, nil
}

// LoadAll loads each named path, which may be a mix of files and
// directories.
func LoadAll(paths []string) ([]model.AgentResult, error) {
	var results []model.AgentResult
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			rs, err := LoadDir(p)
			if err != nil {
				return nil, err
			}
			results = append(results, rs...)
			continue
		}
		r, err := Load(p)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// agentFromFilename derives the agent name from a result file path:
// results/security.findings.json -> security.
func agentFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, resultFileSuffix)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return name
}
