package formula

import (
	"fmt"
	"io"

	"github.com/potools/pluralform/internal/types"
)

type lexer struct {
	source string
	index  int
	buf    []token
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
		buf:    nil,
	}
}

func (l *lexer) isCompleted() bool {
	for i := l.index; i != len(l.source); i++ {
		switch l.source[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return false
	}
	return len(l.buf) == 0
}

func (l *lexer) push(t token) {
	l.buf = append(l.buf, t)
}

func (l *lexer) consume() (token, error) {
	if len(l.buf) != 0 {
		tok := l.buf[len(l.buf)-1]
		l.buf = l.buf[:len(l.buf)-1]
		return tok, nil
	}

	for l.index != len(l.source) {
		switch c := l.source[l.index]; c {
		case ' ', '\t', '\r', '\n':
			l.index++ // just skip white spaces

		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			begins := l.index
			for l.index != len(l.source) && isDigit(l.source[l.index]) {
				l.index++
			}
			return numericLiteralToken{rangeToken{beginsPos: begins, endsPos: l.index}}, nil

		case '+', '-', '*', '/', '%', '(', ')', '?', ':':
			l.index++
			return operatorToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil

		case '<', '>', '!':
			if l.index != len(l.source)-1 && l.source[l.index+1] == '=' {
				l.index += 2
				return operatorToken{rangeToken{beginsPos: l.index - 2, endsPos: l.index}}, nil
			}
			l.index++
			return operatorToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil

		case '=':
			if l.index != len(l.source)-1 && l.source[l.index+1] == '=' {
				l.index += 2
				return operatorToken{rangeToken{beginsPos: l.index - 2, endsPos: l.index}}, nil
			}
			return nil, l.createInvalidCharError()

		case '&', '|':
			if l.index != len(l.source)-1 && l.source[l.index+1] == c {
				l.index += 2
				return operatorToken{rangeToken{beginsPos: l.index - 2, endsPos: l.index}}, nil
			}
			return nil, l.createInvalidCharError()

		default:
			if isWordChar(c) {
				begins := l.index
				for l.index != len(l.source) && isWordChar(l.source[l.index]) {
					l.index++
				}

				switch l.source[begins:l.index] {
				case "and", "or", "not":
					return operatorToken{rangeToken{beginsPos: begins, endsPos: l.index}}, nil
				case "n":
					return variableToken{rangeToken{beginsPos: begins, endsPos: l.index}}, nil
				default:
					return nil, &types.Error{
						Tag:   types.LexicalErrorTag,
						Err:   fmt.Errorf("unknown word %q at %d", l.source[begins:l.index], begins+1),
						Extra: map[string]any{"pos": begins + 1},
					}
				}
			}
			return nil, l.createInvalidCharError()
		}
	}

	return nil, io.EOF
}

func (l *lexer) createInvalidCharError() error {
	return &types.Error{
		Tag:   types.LexicalErrorTag,
		Err:   fmt.Errorf("invalid character %q at %d", l.source[l.index], l.index+1),
		Extra: map[string]any{"pos": l.index + 1},
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWordChar(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}
