// Package descriptor reads Kotlin metadata from text: annotation literals
// such as `kotlin/Metadata(k=1, d1=["..."])` and YAML manifests that list
// classes together with their metadata.
package descriptor

import (
	stderrors "errors"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
)

type annotationNode struct {
	Pos       lexer.Position
	Name      string          `parser:"@Name '('"`
	Arguments []*argumentNode `parser:"( @@ ( ',' @@ )* )? ')'"`
}

type argumentNode struct {
	Pos   lexer.Position
	Name  string     `parser:"@Name '='"`
	Value *valueNode `parser:"@@"`
}

type valueNode struct {
	Pos        lexer.Position
	Annotation *annotationNode `parser:"  '@' @@"`
	Array      *arrayNode      `parser:"| @@"`
	String     *string         `parser:"| @String"`
	Char       *string         `parser:"| @Char"`
	Number     *string         `parser:"| @Number"`
	Boolean    *string         `parser:"| @('true' | 'false')"`
	Reference  *referenceNode  `parser:"| @@"`
}

type arrayNode struct {
	Elements []*valueNode `parser:"'[' ( @@ ( ',' @@ )* )? ']'"`
}

// Class literal (Foo::class) or enum entry (Foo.BAR)
type referenceNode struct {
	Type    *classTypeNode `parser:"@@"`
	Literal bool           `parser:"( @'::' 'class'"`
	Entry   string         `parser:"| '.' @Name )"`
}

type classTypeNode struct {
	Element *classTypeNode `parser:"  'Array' '<' @@ '>'"`
	Name    string         `parser:"| @Name"`
}

var literalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\(u[0-9a-fA-F]{4}|U[0-9a-fA-F]{8}|x[0-9a-fA-F]{2}|[0-7]{3}|.)|[^'\\])'`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?[a-zA-Z]*`},
	{Name: "Name", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*(/[a-zA-Z_$][a-zA-Z0-9_$]*)*`},
	{Name: "Punct", Pattern: `::|[@()\[\],=.<>]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser turns annotation literals into kotlin.Annotation values. It is safe for concurrent use.
type Parser struct {
	parser *participle.Parser[annotationNode]
}

// NewParser builds the annotation literal parser
func NewParser() *Parser {
	parser := participle.MustBuild[annotationNode](
		participle.Lexer(literalLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	return &Parser{parser: parser}
}

var defaultParser = NewParser()

// ParseAnnotation parses a single annotation literal with the shared parser
func ParseAnnotation(literal string) (*kotlin.Annotation, error) {
	return defaultParser.Parse("", literal)
}

// Parse parses one annotation literal. filename is only used in error locations.
func (p *Parser) Parse(filename, literal string) (*kotlin.Annotation, error) {
	node, err := p.parser.ParseString(filename, literal)
	if err != nil {
		var perr participle.Error
		if stderrors.As(err, &perr) {
			return nil, errors.NewSyntaxError("invalid annotation literal: " + perr.Message()).
				WithLocation(location(filename, perr.Position()))
		}
		return nil, errors.WrapParseError("annotation literal", err)
	}
	return buildAnnotation(filename, node)
}

func location(filename string, pos lexer.Position) errors.SourceLocation {
	if filename == "" {
		filename = "<literal>"
	}
	return errors.SourceLocation{File: filename, Line: pos.Line, Column: pos.Column}
}

func buildAnnotation(filename string, node *annotationNode) (*kotlin.Annotation, error) {
	name, err := classfile.NewClassName(node.Name)
	if err != nil {
		return nil, err
	}
	arguments := make([]*kotlin.AnnotationArgument, 0, len(node.Arguments))
	for _, argument := range node.Arguments {
		value, err := buildValue(filename, argument.Value)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, kotlin.NewArgument(argument.Name, value))
	}
	return kotlin.NewAnnotation(name, arguments...), nil
}

func buildValue(filename string, node *valueNode) (kotlin.ArgumentValue, error) {
	switch {
	case node.Annotation != nil:
		annotation, err := buildAnnotation(filename, node.Annotation)
		if err != nil {
			return nil, err
		}
		return kotlin.AnnotationValue{Annotation: annotation}, nil

	case node.Array != nil:
		elements := make([]kotlin.ArgumentValue, 0, len(node.Array.Elements))
		for _, element := range node.Array.Elements {
			value, err := buildValue(filename, element)
			if err != nil {
				return nil, err
			}
			elements = append(elements, value)
		}
		return kotlin.ArrayValue{Elements: elements}, nil

	case node.String != nil:
		s, err := strconv.Unquote(*node.String)
		if err != nil {
			return nil, literalError(filename, node.Pos, *node.String, "invalid string literal")
		}
		return kotlin.StringValue(s), nil

	case node.Char != nil:
		c, ok := parseChar(*node.Char)
		if !ok {
			return nil, literalError(filename, node.Pos, *node.Char, "invalid char literal")
		}
		return kotlin.CharValue(c), nil

	case node.Number != nil:
		value, err := parseNumber(*node.Number)
		if err != nil {
			return nil, literalError(filename, node.Pos, *node.Number, err.Error())
		}
		return value, nil

	case node.Boolean != nil:
		return kotlin.BooleanValue(*node.Boolean == "true"), nil

	case node.Reference != nil:
		return buildReference(filename, node.Pos, node.Reference)
	}
	return nil, literalError(filename, node.Pos, "", "empty value")
}

// parseChar decodes a quoted char literal. \uXXXX is taken as a raw UTF-16 unit,
// so lone surrogates are accepted.
func parseChar(literal string) (rune, bool) {
	if len(literal) == 8 && strings.HasPrefix(literal, `'\u`) {
		unit, err := strconv.ParseUint(literal[3:7], 16, 16)
		if err != nil {
			return 0, false
		}
		return rune(unit), true
	}
	s, err := strconv.Unquote(literal)
	runes := []rune(s)
	if err != nil || len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

func buildReference(filename string, pos lexer.Position, node *referenceNode) (kotlin.ArgumentValue, error) {
	dimensions := 0
	typ := node.Type
	for typ.Element != nil {
		dimensions++
		typ = typ.Element
	}
	name, err := classfile.NewClassName(typ.Name)
	if err != nil {
		return nil, err
	}
	if node.Literal {
		return kotlin.ClassValue{ClassName: name, ArrayDimensions: dimensions}, nil
	}
	if dimensions > 0 {
		return nil, literalError(filename, pos, node.Entry, "enum entries cannot belong to an array type")
	}
	return kotlin.EnumValue{ClassName: name, EntryName: node.Entry}, nil
}

func literalError(filename string, pos lexer.Position, token, reason string) error {
	return errors.NewSyntaxErrorWithToken(reason, token, pos.Offset).
		WithLocation(location(filename, pos))
}

// parseNumber converts a numeric literal with an optional type suffix
func parseNumber(literal string) (kotlin.ArgumentValue, error) {
	body := strings.TrimRight(literal, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	suffix := strings.ToUpper(literal[len(body):])
	floating := strings.ContainsAny(body, ".eE")

	switch suffix {
	case "F":
		f, err := strconv.ParseFloat(body, 32)
		if err != nil {
			return nil, rangeError(err)
		}
		return kotlin.FloatValue(f), nil
	case "", "D":
		if floating || suffix == "D" {
			f, err := strconv.ParseFloat(body, 64)
			if err != nil {
				return nil, rangeError(err)
			}
			return kotlin.DoubleValue(f), nil
		}
	}
	if floating {
		return nil, stderrors.New("suffix " + suffix + " requires an integer literal")
	}

	switch suffix {
	case "":
		return signed[int32, kotlin.IntValue](body)
	case "L":
		return signed[int64, kotlin.LongValue](body)
	case "B":
		return signed[int8, kotlin.ByteValue](body)
	case "S":
		return signed[int16, kotlin.ShortValue](body)
	case "U":
		return unsigned[uint32, kotlin.UIntValue](body)
	case "UL":
		return unsigned[uint64, kotlin.ULongValue](body)
	case "UB":
		return unsigned[uint8, kotlin.UByteValue](body)
	case "US":
		return unsigned[uint16, kotlin.UShortValue](body)
	}
	return nil, stderrors.New("unknown numeric suffix " + suffix)
}

func signed[N int8 | int16 | int32 | int64, V interface {
	~int8 | ~int16 | ~int32 | ~int64
	kotlin.ArgumentValue
}](body string) (kotlin.ArgumentValue, error) {
	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return nil, rangeError(err)
	}
	narrowed, err := safecast.Conv[N](n)
	if err != nil {
		return nil, rangeError(err)
	}
	return V(narrowed), nil
}

func unsigned[N uint8 | uint16 | uint32 | uint64, V interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
	kotlin.ArgumentValue
}](body string) (kotlin.ArgumentValue, error) {
	if strings.HasPrefix(body, "-") {
		return nil, stderrors.New("unsigned literal cannot be negative")
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(body, "+"), 10, 64)
	if err != nil {
		return nil, rangeError(err)
	}
	narrowed, err := safecast.Conv[N](n)
	if err != nil {
		return nil, rangeError(err)
	}
	return V(narrowed), nil
}

func rangeError(err error) error {
	var numErr *strconv.NumError
	if stderrors.As(err, &numErr) && stderrors.Is(numErr.Err, strconv.ErrSyntax) {
		return stderrors.New("malformed number")
	}
	return stderrors.New("value out of range")
}
