package signal

import (
	"regexp"
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Schema and migration file path patterns.
var schemaFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)migrat`),
	regexp.MustCompile(`(?i)schema`),
	regexp.MustCompile(`\.proto$`),
	regexp.MustCompile(`(?i)(openapi|swagger)\.(ya?ml|json)$`),
	regexp.MustCompile(`\.prisma$`),
	regexp.MustCompile(`(?i)\.graphql$`),
}

// SQL DDL keywords in added lines.
var ddlPatterns = compilePatterns(
	`(?i)\b(CREATE|ALTER|DROP)\s+(TABLE|INDEX|VIEW|SCHEMA|DATABASE|TYPE|SEQUENCE)\b`,
	`(?i)\b(ADD|DROP|MODIFY)\s+COLUMN\b`,
	`(?i)\bRENAME\s+(TABLE|COLUMN)\b`,
)

// schemaSignals flags schema/migration file changes and DDL in added lines.
func schemaSignals(path string, added []string) []model.ChangeSignal {
	for _, re := range schemaFilePatterns {
		if re.MatchString(path) {
			return []model.ChangeSignal{{Tag: model.SignalSchema, File: path}}
		}
	}

	for _, line := range added {
		if matchAny(ddlPatterns, line) {
			return []model.ChangeSignal{{
				Tag:    model.SignalSchema,
				File:   path,
				Detail: strings.TrimSpace(line),
			}}
		}
	}

	return nil
}
