// Package script parses and runs avatar edit scripts: a line oriented list
// of editor commands replayed headlessly against an avatar.Editor.
//
//	# center the face, zoom twice and turn upright
//	drag 10 -5
//	zoom in 2
//	rotate right
//	export "avatar.jpg"
package script

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser represents an edit script parser
type Parser struct {
	parser *participle.Parser[Script]
}

// NewParser creates a new script parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Script](
		participle.Lexer(ScriptLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a script from a reader
func (p *Parser) Parse(name string, r io.Reader) (*Script, error) {
	s, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseString parses a script from a string
func (p *Parser) ParseString(input string) (*Script, error) {
	s, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseFile parses a script from a file path
func (p *Parser) ParseFile(filename string) (*Script, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

func (s *Script) validate() error {
	for _, cmd := range s.Commands {
		if cmd.Zoom != nil && cmd.Zoom.Count() < 1 {
			return fmt.Errorf("%s: zoom steps must be positive, got %d", cmd.Pos, cmd.Zoom.Count())
		}
		if cmd.Export != nil && *cmd.Export == "" {
			return fmt.Errorf("%s: export path is empty", cmd.Pos)
		}
		if cmd.Preview != nil && *cmd.Preview == "" {
			return fmt.Errorf("%s: preview path is empty", cmd.Pos)
		}
	}
	return nil
}
