package harness

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// FormatArgumentFile renders args one per line. Arguments containing white
// space, pipes, comment markers, quotes or backslashes are double quoted with
// \" and \\ escapes so ParseArguments returns them unchanged.
func FormatArgumentFile(args []string) string {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(quoteArg(arg))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteArgumentFile writes args to path in the argument file format.
func WriteArgumentFile(path string, args []string) error {
	if err := os.WriteFile(path, []byte(FormatArgumentFile(args)), 0644); err != nil {
		return errors.Wrapf(err, "writing argument file %s", path)
	}
	return nil
}

// ReadArgumentFile parses the argument file at path.
func ReadArgumentFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening argument file")
	}
	defer f.Close()

	return ParseArguments(f, path)
}

func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\r\n|#\"'\\") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(arg) + `"`
}

// ParseArguments tokenizes an argument file. Tokens are separated by white
// space; '#' at the start of a token comments out the rest of the line;
// double quoted sections honour \" and \\ escapes; single quoted sections are
// literal. Quoted and unquoted sections directly next to each other form one
// token.
func ParseArguments(r io.Reader, source string) ([]string, error) {
	br := bufio.NewReader(r)

	var (
		args    []string
		token   strings.Builder
		inToken bool
		line    = 1
	)

	next := func() (rune, bool, error) {
		c, _, err := br.ReadRune()
		if err == io.EOF {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, errors.Wrapf(err, "reading %s", source)
		}
		if c == '\n' {
			line++
		}
		return c, true, nil
	}

	flush := func() {
		if inToken {
			args = append(args, token.String())
			token.Reset()
			inToken = false
		}
	}

	for {
		c, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			flush()
		case c == '#' && !inToken:
			for c != '\n' {
				if c, ok, err = next(); err != nil {
					return nil, err
				} else if !ok {
					break
				}
			}
		case c == '"':
			inToken = true
			start := line
			for {
				c, ok, err = next()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, &ParseError{Source: source, Line: start, Reason: "unterminated double quote"}
				}
				if c == '"' {
					break
				}
				if c == '\\' {
					escaped, more, err := next()
					if err != nil {
						return nil, err
					}
					if !more {
						return nil, &ParseError{Source: source, Line: start, Reason: "unterminated double quote"}
					}
					if escaped != '"' && escaped != '\\' {
						token.WriteRune('\\')
					}
					c = escaped
				}
				token.WriteRune(c)
			}
		case c == '\'':
			inToken = true
			start := line
			for {
				c, ok, err = next()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, &ParseError{Source: source, Line: start, Reason: "unterminated single quote"}
				}
				if c == '\'' {
					break
				}
				token.WriteRune(c)
			}
		default:
			inToken = true
			token.WriteRune(c)
		}
	}
	flush()

	return args, nil
}
