// Package hosts reads and writes hosts(5) files without losing formatting.
//
// A file is modelled as an ordered slice of models.Part, one per line.
// Rendering a parsed slice that was not modified reproduces the input,
// except that every line break is written as "\n".
package hosts

import (
	"strings"

	"hostsmod/pkg/models"
	"hostsmod/pkg/utils"
)

// Parser handles hosts file parsing
type Parser struct{}

// NewParser creates a new hosts parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses content with a default parser
func Parse(content string) ([]models.Part, error) {
	return NewParser().ParseHosts(content)
}

// ParseHosts parses hosts file content into one part per line. Lines are
// separated by "\r\n", "\n\r" or "\n". Any line that is neither blank, a
// comment nor a well-formed entry fails the whole parse.
func (p *Parser) ParseHosts(content string) ([]models.Part, error) {
	var parts []models.Part

	rest := content
	for lineNo := 1; ; lineNo++ {
		line, next, more := splitLine(rest)

		part, ok := p.parseLine(line)
		if !ok {
			return nil, &ParseError{Line: lineNo, Text: line, Remainder: rest}
		}
		parts = append(parts, part)

		if !more {
			return parts, nil
		}
		rest = next
	}
}

// splitLine cuts the first line off s. more is false for the last line.
func splitLine(s string) (line, rest string, more bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				return s[:i], s[i+2:], true
			}
		case '\n':
			if i+1 < len(s) && s[i+1] == '\r' {
				return s[:i], s[i+2:], true
			}
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// parseLine classifies a single line
func (p *Parser) parseLine(line string) (models.Part, bool) {
	if strings.ContainsRune(line, '\r') {
		return models.Part{}, false
	}

	trimmed := strings.TrimLeftFunc(line, utils.IsBlank)
	if trimmed == "" {
		return models.NewEmpty(line).WithSource(line, ""), true
	}

	if strings.HasPrefix(trimmed, "#") {
		body := strings.TrimLeftFunc(trimmed[1:], utils.IsBlank)
		if part, leadLen, ok := p.parseEntry(body); ok {
			part.Kind = models.KindCommentedEntry
			return part.WithSource(line, line[:len(line)-len(body)+leadLen]), true
		}
		return models.NewComment(trimmed[1:]).WithSource(line, ""), true
	}

	part, leadLen, ok := p.parseEntry(trimmed)
	if !ok {
		return models.Part{}, false
	}
	return part.WithSource(line, line[:len(line)-len(trimmed)+leadLen]), true
}

// parseEntry matches: address, blanks, hostnames separated by blanks,
// optional blanks, optional '#' comment. The whole of s must match. leadLen
// is the length of the text before the first hostname.
func (p *Parser) parseEntry(s string) (part models.Part, leadLen int, ok bool) {
	token, rest := utils.SplitAddrToken(s)
	addr, ok := utils.ParseAddrToken(token)
	if !ok {
		return models.Part{}, 0, false
	}

	afterAddr := strings.TrimLeftFunc(rest, utils.IsBlank)
	if len(afterAddr) == len(rest) || afterAddr == "" {
		return models.Part{}, 0, false
	}
	leadLen = len(s) - len(afterAddr)

	part = models.NewEntry(addr)
	rest = afterAddr
	for rest != "" {
		end := strings.IndexFunc(rest, func(r rune) bool { return !utils.IsHostnameRune(r) })
		if end == 0 {
			return models.Part{}, 0, false
		}
		if end < 0 {
			end = len(rest)
		}
		part.Hostnames = append(part.Hostnames, rest[:end])
		rest = rest[end:]

		afterBlank := strings.TrimLeftFunc(rest, utils.IsBlank)
		switch {
		case afterBlank == "":
			rest = ""
		case afterBlank[0] == '#':
			part = part.WithComment(afterBlank[1:])
			rest = ""
		case len(afterBlank) == len(rest):
			// hostname directly followed by a character it may not contain
			return models.Part{}, 0, false
		default:
			rest = afterBlank
		}
	}
	return part, leadLen, true
}
