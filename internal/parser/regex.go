package parser

import (
	"regexp"
	"strings"

	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// combinedLogPattern requires the whole Combined Log Format layout, protocol included.
var combinedLogPattern = strings.Join([]string{
	`(?P<ip>\A\w+[.]\w+[.]+\w+[.]+\w+)`,
	`(?P<RFC931>\S+)`,
	`(?P<user>\S+)`,
	`\[(?P<date>\d{2}/[a-zA-Z]{3}/\d{4}:\d{2}:\d{2}:\d{2}) (?P<gmt>[+-]\d{4})\]`,
	`"(?P<action>.*) HTTP/\d*\.*\d*"`,
	`(?P<status>[0-9]*)`,
	`(?P<size>\S*)`,
	`"(?P<referrer>.*)" "(?P<browser>.*)"`,
}, " ")

type regexParser struct {
	logRegex *regexp.Regexp
	index    map[string]int
}

// NewRegexParser returns the named-group form of the parser. Unlike Parse it has no
// per-field fallback: a line either matches the full layout or is rejected.
func NewRegexParser() Parser {
	re := regexp.MustCompile(combinedLogPattern)
	index := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if name != "" {
			index[name] = i
		}
	}
	return &regexParser{logRegex: re, index: index}
}

// ParseRegex parses line with the shared regex parser.
func ParseRegex(line string) (model.LogRecord, error) {
	return defaultRegexParser.Parse(line)
}

var defaultRegexParser = NewRegexParser()

func (p *regexParser) Parse(line string) (model.LogRecord, error) {
	matches := p.logRegex.FindStringSubmatch(line)
	if matches == nil {
		log.Debug().Str("line", line).Msg("Log line did not match combined log format")
		return model.LogRecord{}, newParseError(line, "line does not match combined log format")
	}

	group := func(name string) string {
		return matches[p.index[name]]
	}
	return model.LogRecord{
		IP:       group("ip"),
		Identd:   group("RFC931"),
		User:     group("user"),
		Date:     group("date"),
		GMT:      group("gmt"),
		Action:   group("action"),
		Status:   group("status"),
		Size:     group("size"),
		Referrer: group("referrer"),
		Browser:  group("browser"),
	}, nil
}
