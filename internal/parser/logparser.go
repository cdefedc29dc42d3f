package parser

import (
	"strings"

	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// Parser turns one access log line into a LogRecord.
type Parser interface {
	Parse(line string) (model.LogRecord, error)
}

const (
	ModePositional = "positional"
	ModeRegex      = "regex"
)

// New returns the parser for mode. Unknown modes fall back to the positional parser.
func New(mode string) Parser {
	switch mode {
	case ModeRegex:
		return NewRegexParser()
	case ModePositional, "":
		return NewPositionalParser()
	default:
		log.Warn().Str("mode", mode).Msg("Unknown parser mode, using positional parser")
		return NewPositionalParser()
	}
}

type positionalParser struct{}

func NewPositionalParser() Parser {
	return positionalParser{}
}

func (positionalParser) Parse(line string) (model.LogRecord, error) {
	return Parse(line)
}

// Parse splits a Combined Log Format line field by field. Every field after the
// bracketed timestamp is extracted independently and falls back to "-" on its own.
// A line with fewer than three leading tokens or no [date tz] group is rejected.
func Parse(line string) (model.LogRecord, error) {
	var rec model.LogRecord

	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return rec, newParseError(line, "fewer than 3 whitespace separated tokens")
	}
	rec.IP, rec.Identd, rec.User = tokens[0], tokens[1], tokens[2]

	bracketGroups := strings.Split(line, "[")
	if len(bracketGroups) < 2 {
		return rec, newParseError(line, "missing [date tz] group")
	}
	dateTokens := strings.Fields(bracketGroups[1])
	if len(dateTokens) < 2 {
		return rec, newParseError(line, "incomplete [date tz] group")
	}
	rec.Date = dateTokens[0]
	rec.GMT = strings.Trim(dateTokens[1], "]")

	quoted := strings.Split(line, `"`)
	rec.Action = actionField(quoted)
	rec.Status = fieldAt(quotedFields(quoted, 2), 0)
	rec.Size = fieldAt(quotedFields(quoted, 2), 1)
	rec.Referrer = groupAt(quoted, 3)
	rec.Browser = groupAt(quoted, 5)

	return rec, nil
}

// actionField returns the request line without its protocol token.
func actionField(quoted []string) string {
	if len(quoted) < 2 {
		return model.Sentinel
	}
	request := strings.TrimSpace(quoted[1])
	parts := strings.Fields(request)
	if len(parts) == 0 {
		return model.Sentinel
	}
	last := parts[len(parts)-1]
	if strings.Contains(last, "HTTP") {
		return strings.TrimSpace(strings.TrimSuffix(request, last))
	}
	return request
}

func quotedFields(quoted []string, i int) []string {
	if i >= len(quoted) {
		return nil
	}
	return strings.Fields(quoted[i])
}

func fieldAt(fields []string, i int) string {
	if i >= len(fields) {
		return model.Sentinel
	}
	return fields[i]
}

func groupAt(quoted []string, i int) string {
	if i >= len(quoted) {
		return model.Sentinel
	}
	return quoted[i]
}
