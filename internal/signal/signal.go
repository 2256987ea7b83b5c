// Package signal scans patch text for domain signals that drive agent routing.
package signal

import (
	"regexp"
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Security-sensitive patterns grouped by category.
var securityPatterns = []struct {
	category string
	patterns []*regexp.Regexp
}{
	{
		category: "authentication",
		patterns: compilePatterns(
			`(?i)(auth|login|logout|signin|signup|password|credential|jwt|oauth|session|cookie)`,
		),
	},
	{
		category: "cryptography",
		patterns: compilePatterns(
			`(?i)(encrypt|decrypt|hmac|cipher|bcrypt|argon|scrypt|pbkdf)`,
			`(?i)(private.?key|public.?key|secret.?key|signing.?key|crypto\.)`,
		),
	},
	{
		category: "secrets",
		patterns: compilePatterns(
			`(?i)(api.?key|secret|password|token)\s*[:=]\s*["'][^"']+["']`,
			`(?i)(PRIVATE|SECRET|PASSWORD|TOKEN|KEY)\s*=\s*["']`,
		),
	},
	{
		category: "sql-injection",
		patterns: compilePatterns(
			`(?i)(query|execute|exec)\s*\(\s*["'].*["']\s*\+`,
			"(?i)(query|execute|exec)\\s*\\(\\s*`[^`]*\\$\\{",
		),
	},
	{
		category: "subprocess",
		patterns: compilePatterns(
			`(?i)(exec\.Command|os\.system|subprocess|child_process|shell_exec|eval\()`,
		),
	},
}

// AI/ML SDK usage patterns.
var aimlPatterns = compilePatterns(
	`(?i)\b(openai|anthropic|langchain|transformers|tiktoken)\b`,
	`(?i)\b(gpt-4|gpt-3\.5|claude-|gemini-|llama)\b`,
	`(?i)(prompt|completion|chat\.completions|messages\.create)\s*[(:=]`,
	`(?i)(OPENAI|ANTHROPIC|OPENROUTER)_API_KEY`,
)

// Plain SQL query construction (not necessarily injectable).
var sqlPatterns = compilePatterns(
	`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b.*\b(FROM|INTO|SET|WHERE)\b`,
	`(?i)(db\.exec|db\.query|\.prepare\(|cursor\.execute|connection\.execute)`,
)

// Backend keywords: their presence disqualifies a file from being UI-only.
var backendPatterns = compilePatterns(
	`(?i)\b(fetch|axios|http\.|request|api/|endpoint|server|database|db\.|sql|query)\b`,
	`(?i)\b(fs\.|os\.|process\.env|child_process)\b`,
)

var frontendExtensions = []string{".tsx", ".jsx", ".css", ".scss", ".vue", ".svelte"}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Extract scans a changed file's added lines and returns every signal it
// carries. A file may yield zero, one, or many signals; malformed patch
// text simply yields none.
func Extract(file model.ChangedFile) []model.ChangeSignal {
	added := addedLines(file.Patch)

	var signals []model.ChangeSignal
	signals = append(signals, securitySignals(file.Path, added)...)
	signals = append(signals, aimlSignals(file.Path, added)...)
	signals = append(signals, sqlSignals(file.Path, added)...)
	signals = append(signals, uiOnlySignal(file.Path, added)...)
	signals = append(signals, dependencySignals(file.Path, added)...)
	signals = append(signals, schemaSignals(file.Path, added)...)
	return signals
}

// ExtractAll runs Extract over every file and concatenates the results.
func ExtractAll(files []model.ChangedFile) []model.ChangeSignal {
	var signals []model.ChangeSignal
	for _, f := range files {
		signals = append(signals, Extract(f)...)
	}
	return signals
}

// HasTag reports whether any signal carries the given tag.
func HasTag(signals []model.ChangeSignal, tag string) bool {
	for _, s := range signals {
		if s.Tag == tag {
			return true
		}
	}
	return false
}

func securitySignals(path string, added []string) []model.ChangeSignal {
	var signals []model.ChangeSignal

	for _, sp := range securityPatterns {
		for _, line := range added {
			if isComment(line) {
				continue
			}
			if matchAny(sp.patterns, line) {
				signals = append(signals, model.ChangeSignal{
					Tag:    model.SignalSecuritySensitive,
					File:   path,
					Detail: sp.category + ": " + strings.TrimSpace(line),
				})
				break // one signal per category per file
			}
		}
	}

	return signals
}

func aimlSignals(path string, added []string) []model.ChangeSignal {
	for _, line := range added {
		if isComment(line) {
			continue
		}
		if matchAny(aimlPatterns, line) {
			return []model.ChangeSignal{{
				Tag:    model.SignalAIML,
				File:   path,
				Detail: strings.TrimSpace(line),
			}}
		}
	}
	return nil
}

func sqlSignals(path string, added []string) []model.ChangeSignal {
	for _, line := range added {
		if isComment(line) {
			continue
		}
		if matchAny(sqlPatterns, line) {
			return []model.ChangeSignal{{
				Tag:    model.SignalSQL,
				File:   path,
				Detail: strings.TrimSpace(line),
			}}
		}
	}
	return nil
}

// uiOnlySignal fires when a frontend file's additions contain no backend
// keywords at all.
func uiOnlySignal(path string, added []string) []model.ChangeSignal {
	if !isFrontend(path) || len(added) == 0 {
		return nil
	}
	for _, line := range added {
		if matchAny(backendPatterns, line) {
			return nil
		}
	}
	return []model.ChangeSignal{{Tag: model.SignalUIOnly, File: path}}
}

func isFrontend(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range frontendExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func matchAny(patterns []*regexp.Regexp, line string) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}

// addedLines returns the content of added lines ("+" prefix) in a unified
// diff hunk, excluding the "+++" file header.
func addedLines(patch string) []string {
	var added []string
	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added = append(added, line[1:])
		}
	}
	return added
}
