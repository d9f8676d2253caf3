package assertions

import (
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/models"
)

// Expression is the grammar root of an assertion shorthand:
//
//	name(arg, ...) "message"
type Expression struct {
	Name    string   `parser:"@Ident"`
	Params  []*Value `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
	Message *string  `parser:"@String?"`
}

// Value is a single assertion argument
type Value struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

// Raw returns the argument text without quotes
func (v *Value) Raw() string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

var (
	assertionLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
		{Name: "Punct", Pattern: `[(),]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	bareValue = regexp.MustCompile(`^([-+]?[0-9]+(\.[0-9]+)?|[a-zA-Z_][a-zA-Z0-9_.]*)$`)
	identName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)
)

// Parser parses assertion shorthand into models.Assertion values and checks
// them against a schema registry
type Parser struct {
	parser   *participle.Parser[Expression]
	registry Registry
}

// NewParser creates a new parser checking arity against registry.
// A nil registry skips schema checks.
func NewParser(registry Registry) *Parser {
	parser := participle.MustBuild[Expression](
		participle.Lexer(assertionLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &Parser{
		parser:   parser,
		registry: registry,
	}
}

// Parse parses one assertion expression
func (p *Parser) Parse(input string) (models.Assertion, error) {
	expr, err := p.parser.ParseString("", strings.TrimSpace(input))
	if err != nil {
		return models.Assertion{}, toSyntaxError(input, err)
	}

	assertion := models.Assertion{Name: expr.Name}
	if len(expr.Params) > 0 {
		assertion.Params = make([]string, len(expr.Params))
		for i, v := range expr.Params {
			assertion.Params[i] = v.Raw()
		}
	}
	if expr.Message != nil {
		assertion.Message = *expr.Message
	}

	if err := p.Validate(assertion); err != nil {
		return models.Assertion{}, err
	}
	return assertion, nil
}

// Validate checks an assertion's name syntax and its arity against the
// registry. Names without a schema are custom predicates and pass.
func (p *Parser) Validate(assertion models.Assertion) error {
	if assertion.Name == "" {
		return errors.NewSyntaxError("assertion name cannot be empty")
	}
	if !identName.MatchString(assertion.Name) {
		return errors.NewSyntaxErrorWithToken("assertion name must be an identifier", assertion.Name, 0).
			WithInput(assertion.Name).
			WithSuggestion("Use letters, digits, '_' and '.' only, e.g. maxLength")
	}
	if p.registry == nil {
		return nil
	}
	schema, ok := p.registry.Lookup(assertion.Name)
	if !ok {
		return nil
	}
	return schema.Check(len(assertion.Params))
}

// Format renders an assertion in shorthand form. Parse(Format(a)) == a.
func Format(a models.Assertion) string {
	var b strings.Builder
	b.WriteString(a.Name)
	b.WriteByte('(')
	for i, param := range a.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(param))
	}
	b.WriteByte(')')
	if a.Message != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(a.Message))
	}
	return b.String()
}

func formatValue(s string) string {
	if bareValue.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

func toSyntaxError(input string, err error) error {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		pos := perr.Position()
		return errors.NewSyntaxErrorWithToken(perr.Message(), tokenAt(input, pos.Offset), pos.Offset).
			WithInput(input).
			WithCause(err).
			WithSuggestion(`Assertions take the form name(arg, ...) "message"`)
	}
	return errors.WrapParseError(input, err)
}

func tokenAt(input string, offset int) string {
	if offset < 0 || offset >= len(input) {
		return ""
	}
	rest := input[offset:]
	if i := strings.IndexAny(rest, " (),"); i > 0 {
		return rest[:i]
	}
	return rest[:1]
}
