package netlist

import (
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/schematic/pkg/errors"
)

// HintSeparator splits the core fields of a line from its hint clause.
const HintSeparator = ";"

// Reserved hint keys with typed fields in [Hints].
const (
	hintDir  = "dir"
	hintSize = "size"
)

// coreLexer splits the core clause into whitespace-separated fields. Symbols
// may contain any non-space character, so there is no finer tokenization.
var coreLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Field", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// hintLexer tokenizes the hint clause. Text runs up to the next "," or "="
// and keeps inner spaces, so keys and values may contain them; the
// surrounding whitespace is trimmed after parsing.
var hintLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Text", Pattern: `[^,=]+`},
	{Name: "Punct", Pattern: `[,=]`},
})

// coreClause is the whitespace-separated fields before the hint separator.
type coreClause struct {
	Fields []string `parser:"@Field*"`
}

// hintClause is a comma-separated list; empty items are tolerated.
type hintClause struct {
	Items []*hintItem `parser:"@@? ( ',' @@? )*"`
}

type hintItem struct {
	Key   string     `parser:"@Text"`
	Value *hintValue `parser:"@@?"`
}

// hintValue keeps the text after the first "="; any further "="-separated
// parts are dropped.
type hintValue struct {
	Text string   `parser:"'=' @Text?"`
	Rest []string `parser:"( '=' @Text? )*"`
}

var (
	coreParser = participle.MustBuild[coreClause](
		participle.Lexer(coreLexer),
		participle.Elide("Whitespace"),
	)
	hintParser = participle.MustBuild[hintClause](
		participle.Lexer(hintLexer),
	)
)

// Parse turns one netlist line into a component.
//
// The line must carry a name and exactly two nodes, optionally followed by an
// explicit symbol; any other field count is an INVALID_LINE error. Hints are
// validated for syntax and numeric size, but an unknown dir=value is stored
// as-is for the layout solver to reject.
func Parse(line string) (Component, error) {
	core, clause, hasHints := strings.Cut(strings.TrimSpace(line), HintSeparator)

	ast, err := coreParser.ParseString("", core)
	if err != nil {
		return Component{}, errors.ParseError(line, "fields: %v", err)
	}
	fields := ast.Fields
	if len(fields) < 3 || len(fields) > 4 {
		return Component{}, errors.ParseError(line, "expected name, 2 nodes and optional symbol, got %d fields", len(fields))
	}

	hints := DefaultHints()
	if hasHints {
		if hints, err = parseHints(clause); err != nil {
			return Component{}, errors.ParseError(line, "hints: %v", err)
		}
	}

	var symbol string
	if len(fields) == 4 {
		symbol = fields[3]
	}

	c, err := NewComponent(fields[0], fields[1], fields[2], symbol, hints)
	if err != nil {
		return Component{}, errors.ParseError(line, "%s", errors.UserMessage(err))
	}
	return c, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// static netlists.
func MustParse(line string) Component {
	c, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return c
}

// parseHints parses the clause after the ";" starting from the defaults.
func parseHints(clause string) (Hints, error) {
	hints := DefaultHints()

	ast, err := hintParser.ParseString("", clause)
	if err != nil {
		return hints, err
	}

	for _, item := range ast.Items {
		if item == nil {
			continue
		}
		key := strings.TrimSpace(item.Key)
		if key == "" {
			if item.Value != nil {
				return hints, errors.New(errors.ErrCodeInvalidLine, "hint value without a key")
			}
			continue
		}
		if d := Direction(key); d.Valid() && item.Value == nil {
			hints.Dir = d
			continue
		}

		var value string
		if item.Value != nil {
			value = strings.TrimSpace(item.Value.Text)
		}

		switch key {
		case hintDir:
			if value == "" {
				return hints, errors.New(errors.ErrCodeInvalidLine, "dir requires a value")
			}
			hints.Dir = Direction(value)
		case hintSize:
			size, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(size) || math.IsInf(size, 0) {
				return hints, errors.New(errors.ErrCodeInvalidLine, "size %q is not a finite number", value)
			}
			hints.Size = size
		default:
			hints.Set(key, value)
		}
	}
	return hints, nil
}
