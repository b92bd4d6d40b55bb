package formula

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/potools/pluralform/internal/types"
)

// Binding powers encode the gettext plural grammar: the ternary binds
// loosest, then || and &&, then the comparisons, then logical not, then
// the additive and multiplicative operators. Logical not sits below the
// arithmetic levels on purpose: "!n+1" means "!(n+1)".
var prefixOperatorBindingPowerMap = map[string]uint8{
	"!":   5,
	"not": 5,
	"-":   8,
	"(":   8,
}

var infixOperatorBindingPowerMap = map[string]uint8{
	"?":   1,
	"||":  2,
	"or":  2,
	"&&":  3,
	"and": 3,
	"==":  4,
	"!=":  4,
	"<":   4,
	"<=":  4,
	">":   4,
	">=":  4,
	"+":   6,
	"-":   6,
	"*":   7,
	"/":   7,
	"%":   7,
}

// word aliases are folded to their symbol forms when the AST is lowered
var operatorAliasMap = map[string]string{
	"and": "&&",
	"or":  "||",
	"not": "!",
}

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("PLURALFORM_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type ast struct {
	atom token
	list []*ast
}

type parser struct {
	source string
	debug  bool
}

// VariableExpr returns the formula "n": the count maps to itself.
func VariableExpr() *Expr {
	return &Expr{
		Source: "n",
		root:   variableNode{},
	}
}

func Parse(source string) (*Expr, error) {
	p := &parser{source: source, debug: parserDebugLog}
	return p.parse()
}

func ParseWithDebugOutput(source string) (*Expr, error) {
	p := &parser{source: source, debug: true}
	return p.parse()
}

func (p *parser) parse() (*Expr, error) {
	lex := newLexer(p.source)
	sExpr, err := p.constructAST(lex, 0)
	if errors.Is(err, io.EOF) {
		// ok: ignore it
	} else if err != nil {
		return nil, err
	}
	if !lex.isCompleted() {
		tok, err := lex.consume()
		if err != nil {
			return nil, err
		}
		if p.debug {
			log.Println("not consumed token: ", p.extractLiteralString(tok))
		}
		return nil, p.createInvalidTokenError(tok)
	}
	if sExpr == nil {
		return nil, types.NewError(types.SyntaxErrorTag, "empty formula is not allowed")
	}

	if p.debug {
		pp.Println(p.source)
		pp.Println(sExpr)
		log.Println(p.renderAST(sExpr))
	}

	root, err := p.constructNode(sExpr)
	if err != nil {
		return nil, err
	}

	return &Expr{
		Source: p.source,
		root:   root,
	}, nil
}

func (p *parser) constructAST(lex *lexer, minBP uint8) (*ast, error) {
	tok, err := lex.consume()
	if err != nil {
		return nil, err
	}
	if p.debug {
		log.Println("first token: ", p.extractLiteralString(tok))
	}

	left := &ast{atom: tok}
	if _, isOP := tok.(operatorToken); isOP {
		op := p.extractLiteralString(tok)
		if bp, isPrefixOP := prefixOperatorBindingPowerMap[op]; isPrefixOP {
			if op == "(" {
				sExpr, err := p.constructAST(lex, 0)
				if errors.Is(err, io.EOF) {
					return nil, p.createInvalidTokenError(tok)
				} else if err != nil {
					return nil, err
				}

				nextTok, err := lex.consume()
				if errors.Is(err, io.EOF) {
					return nil, p.createInvalidTokenError(tok)
				} else if err != nil {
					return nil, err
				}
				if p.debug {
					log.Println("next of paren token: ", p.extractLiteralString(nextTok))
				}

				if _, isOp := nextTok.(operatorToken); !isOp {
					return nil, p.createInvalidTokenError(nextTok)
				} else if p.extractLiteralString(nextTok) != ")" {
					return nil, p.createInvalidTokenError(nextTok)
				}

				left = &ast{list: []*ast{{atom: tok}, sExpr}}
			} else {
				sExpr, err := p.constructAST(lex, bp+1)
				if errors.Is(err, io.EOF) {
					// ok: ignore it
				} else if err != nil {
					return nil, err
				}
				if sExpr == nil {
					return nil, p.createInvalidTokenError(tok)
				}
				if op == "-" && sExpr.list != nil && len(sExpr.list) == 2 {
					if opTok, isOP := sExpr.list[0].atom.(operatorToken); isOP {
						if p.extractLiteralString(opTok) == "-" {
							return nil, p.createInvalidTokenError(opTok)
						}
					}
				}

				left = &ast{list: []*ast{{atom: tok}, sExpr}}
			}
		} else {
			return nil, p.createInvalidTokenError(tok)
		}
	}

	for {
		tok, err := lex.consume()
		if errors.Is(err, io.EOF) {
			return left, nil
		} else if err != nil {
			return nil, err
		}

		if _, isOP := tok.(operatorToken); isOP {
			op := p.extractLiteralString(tok)
			if p.debug {
				log.Println("OP", minBP, op, p.renderAST(left))
			}
			if bp, isInfixOP := infixOperatorBindingPowerMap[op]; isInfixOP {
				if bp < minBP {
					lex.push(tok)
					return left, nil
				}

				if op == "?" {
					ifTrue, err := p.constructAST(lex, 0)
					if errors.Is(err, io.EOF) {
						return nil, p.createInvalidTokenError(tok)
					} else if err != nil {
						return nil, err
					}

					sepTok, err := lex.consume()
					if errors.Is(err, io.EOF) {
						return nil, p.createInvalidTokenError(tok)
					} else if err != nil {
						return nil, err
					}
					if _, isOp := sepTok.(operatorToken); !isOp {
						return nil, p.createInvalidTokenError(sepTok)
					} else if p.extractLiteralString(sepTok) != ":" {
						return nil, p.createInvalidTokenError(sepTok)
					}

					// same binding power on the false branch makes
					// chained ternaries fold to the right
					ifFalse, err := p.constructAST(lex, bp)
					if errors.Is(err, io.EOF) {
						// ok: ignore it
					} else if err != nil {
						return nil, err
					}
					if ifFalse == nil {
						return nil, p.createInvalidTokenError(sepTok)
					}

					left = &ast{list: []*ast{{atom: tok}, left, ifTrue, ifFalse}}
					continue
				}

				sExpr, err := p.constructAST(lex, bp+1)
				if errors.Is(err, io.EOF) {
					// ok: ignore it
				} else if err != nil {
					return nil, err
				}
				if sExpr == nil {
					return nil, p.createInvalidTokenError(tok)
				}

				left = &ast{list: []*ast{{atom: tok}, left, sExpr}}
				continue
			} else {
				lex.push(tok)
				return left, nil
			}
		} else {
			if p.debug {
				log.Println("token: ", p.extractLiteralString(tok))
			}
			return nil, p.createInvalidTokenError(tok)
		}
	}
}

func (p *parser) constructNode(sExpr *ast) (node, error) {
	if sExpr.list == nil {
		return p.constructNodeByAtom(sExpr.atom)
	}

	first := sExpr.list[0]
	if first.list != nil {
		panic(fmt.Sprintf("invalid AST: %s", p.renderAST(sExpr)))
	}

	opTok, isOP := first.atom.(operatorToken)
	if !isOP {
		panic(fmt.Sprintf("invalid AST: %s", p.renderAST(sExpr)))
	}
	op := p.extractLiteralString(opTok)
	if alias, ok := operatorAliasMap[op]; ok {
		op = alias
	}

	switch len(sExpr.list) {
	case 2:
		if op == "(" {
			return p.constructNode(sExpr.list[1])
		}

		operand, err := p.constructNode(sExpr.list[1])
		if err != nil {
			return nil, err
		}

		return &unaryNode{
			operator: op,
			operand:  operand,
		}, nil

	case 3:
		left, err := p.constructNode(sExpr.list[1])
		if err != nil {
			return nil, err
		}

		right, err := p.constructNode(sExpr.list[2])
		if err != nil {
			return nil, err
		}

		return &binaryNode{
			operator: op,
			left:     left,
			right:    right,
		}, nil

	case 4:
		if op != "?" {
			panic(fmt.Sprintf("invalid AST: %s", p.renderAST(sExpr)))
		}

		test, err := p.constructNode(sExpr.list[1])
		if err != nil {
			return nil, err
		}

		ifTrue, err := p.constructNode(sExpr.list[2])
		if err != nil {
			return nil, err
		}

		ifFalse, err := p.constructNode(sExpr.list[3])
		if err != nil {
			return nil, err
		}

		return &condNode{
			test:    test,
			ifTrue:  ifTrue,
			ifFalse: ifFalse,
		}, nil

	default:
		panic(fmt.Sprintf("invalid AST: %s", p.renderAST(sExpr)))
	}
}

func (p *parser) constructNodeByAtom(t token) (node, error) {
	switch t.(type) {
	case variableToken:
		return variableNode{}, nil

	case numericLiteralToken:
		v := p.extractLiteralString(t)
		vv, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &types.Error{
				Tag:   types.LiteralRangeErrorTag,
				Err:   fmt.Errorf("invalid integer %s at %d: %w", v, t.BeginsPos()+1, err),
				Extra: map[string]any{"pos": t.BeginsPos() + 1, "literal": v},
			}
		}

		return numberNode{value: vv}, nil

	default:
		return nil, p.createInvalidTokenError(t)
	}
}

func (p *parser) extractLiteralString(t token) string {
	return p.source[t.BeginsPos():t.EndsPos()]
}

func (p *parser) createInvalidTokenError(t token) error {
	return &types.Error{
		Tag:   types.SyntaxErrorTag,
		Err:   fmt.Errorf("invalid token %s at %d: formula=%q", p.extractLiteralString(t), t.BeginsPos()+1, p.source),
		Extra: map[string]any{"pos": t.BeginsPos() + 1, "token": p.extractLiteralString(t)},
	}
}

func (p *parser) renderAST(sExpr *ast) string {
	if sExpr == nil {
		return "nil"
	}
	if sExpr.list != nil {
		var b strings.Builder
		b.WriteByte('(')
		for i, expr := range sExpr.list {
			if i != 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.renderAST(expr))
		}
		b.WriteByte(')')
		return b.String()
	}

	switch sExpr.atom.(type) {
	case numericLiteralToken, variableToken:
		return p.source[sExpr.atom.BeginsPos():sExpr.atom.EndsPos()]
	default:
		return strconv.Quote(p.source[sExpr.atom.BeginsPos():sExpr.atom.EndsPos()])
	}
}
