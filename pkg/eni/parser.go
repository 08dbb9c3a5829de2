package eni

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/akam1o/ifbridge/pkg/errors"
	"github.com/akam1o/ifbridge/pkg/logger"
)

// Parser groups the lines of an interfaces file into stanzas
type Parser struct {
	cursor *Cursor
}

// NewParser creates a parser over already materialized lines.
// Each line keeps its trailing newline, as produced by ReadLines.
func NewParser(lines []string) *Parser {
	return &Parser{
		cursor: NewCursor(lines),
	}
}

// ReadLines reads r fully and splits it into lines that keep their "\n" terminator
func ReadLines(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Parse scans all lines and returns the stanzas in file order.
// Lines before the first block start are dropped.
func (p *Parser) Parse() ([]Stanza, error) {
	var stanzas []Stanza

	for {
		line, ok := p.cursor.Next()
		if !ok {
			return stanzas, nil
		}
		if !IsBlockStart(line) {
			continue
		}

		stanza, err := p.parseStanza(line)
		if err != nil {
			return nil, err
		}
		stanzas = append(stanzas, stanza)
	}
}

// parseStanza collects option lines until the next block start or end of input
func (p *Parser) parseStanza(first string) (Stanza, error) {
	var options []string

	for {
		line, ok := p.cursor.Next()
		if !ok {
			break
		}
		if line == "\n" {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
			continue
		}
		if IsBlockStart(line) {
			// Hand the line back so the outer loop starts the next stanza with it
			if err := p.cursor.Seek(-1, io.SeekCurrent); err != nil {
				return Stanza{}, err
			}
			break
		}
		if opt := strings.TrimSpace(line); opt != "" {
			options = append(options, opt)
		}
	}

	return NewStanza(strings.TrimSpace(first), options)
}

// Parse reads and parses interfaces text from r
func Parse(r io.Reader) ([]Stanza, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return NewParser(lines).Parse()
}

// ParseFile opens, reads and parses an interfaces file.
// The file is read once and closed before parsing starts.
func ParseFile(path string, log *logger.Logger) ([]Stanza, error) {
	if log != nil {
		log.Debug("Reading interfaces file", slog.String("path", path))
	}

	lines, err := readFileLines(path)
	if err != nil {
		return nil, err
	}

	stanzas, err := NewParser(lines).Parse()
	if err != nil {
		if errors.Is(err, ErrOutOfRange) {
			return nil, errors.Wrap(
				err,
				errors.ErrCodeCursorOutOfRange,
				fmt.Sprintf("Failed to parse interfaces file: %s", path),
				"The block scanner moved outside the file while backtracking",
				"Report the file contents; this indicates an internal parser bug",
			)
		}
		return nil, errors.ConfigParseError(path, err)
	}

	if log != nil {
		log.Debug("Parsed interfaces file",
			slog.String("path", path),
			slog.Int("lines", len(lines)),
			slog.Int("stanzas", len(stanzas)),
		)
	}
	return stanzas, nil
}

func readFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.ConfigReadError(path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, errors.ConfigReadError(path, err)
	}
	return lines, nil
}
