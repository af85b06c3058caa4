package descriptor

import (
	"math"
	"strconv"
	"strings"

	"github.com/PranavPurwar/proguard-core/internal/kotlin"
)

// Format writes an annotation back as a literal that Parse accepts.
// Non-finite floating point values have no literal form and are written as NaN or Inf.
// Nil arguments are left out.
func Format(annotation *kotlin.Annotation) string {
	var b strings.Builder
	formatAnnotation(&b, annotation)
	return b.String()
}

func formatAnnotation(b *strings.Builder, annotation *kotlin.Annotation) {
	b.WriteString(annotation.ClassName().Internal())
	b.WriteByte('(')
	first := true
	for _, argument := range annotation.Arguments {
		if argument == nil {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(argument.Name)
		b.WriteByte('=')
		formatValue(b, argument.Value)
	}
	b.WriteByte(')')
}

func formatValue(b *strings.Builder, value kotlin.ArgumentValue) {
	switch v := value.(type) {
	case kotlin.ByteValue:
		b.WriteString(strconv.FormatInt(int64(v), 10) + "B")
	case kotlin.ShortValue:
		b.WriteString(strconv.FormatInt(int64(v), 10) + "S")
	case kotlin.IntValue:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case kotlin.LongValue:
		b.WriteString(strconv.FormatInt(int64(v), 10) + "L")
	case kotlin.UByteValue:
		b.WriteString(strconv.FormatUint(uint64(v), 10) + "UB")
	case kotlin.UShortValue:
		b.WriteString(strconv.FormatUint(uint64(v), 10) + "US")
	case kotlin.UIntValue:
		b.WriteString(strconv.FormatUint(uint64(v), 10) + "U")
	case kotlin.ULongValue:
		b.WriteString(strconv.FormatUint(uint64(v), 10) + "UL")
	case kotlin.FloatValue:
		b.WriteString(formatFloat(float64(v), 32) + "F")
	case kotlin.DoubleValue:
		s := formatFloat(float64(v), 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		b.WriteString(s)
	case kotlin.BooleanValue:
		b.WriteString(strconv.FormatBool(bool(v)))
	case kotlin.CharValue:
		formatChar(b, rune(v))
	case kotlin.StringValue:
		b.WriteString(strconv.Quote(string(v)))
	case kotlin.ClassValue:
		b.WriteString(strings.Repeat("Array<", v.ArrayDimensions))
		b.WriteString(v.ClassName.Internal())
		b.WriteString(strings.Repeat(">", v.ArrayDimensions))
		b.WriteString("::class")
	case kotlin.EnumValue:
		b.WriteString(v.ClassName.Internal() + "." + v.EntryName)
	case kotlin.AnnotationValue:
		b.WriteByte('@')
		if v.Annotation != nil {
			formatAnnotation(b, v.Annotation)
		}
	case kotlin.ArrayValue:
		b.WriteByte('[')
		for i, element := range v.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			formatValue(b, element)
		}
		b.WriteByte(']')
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// Surrogates are not valid runes, so they are written as a \u escape by hand.
func formatChar(b *strings.Builder, c rune) {
	if c >= 0xd800 && c <= 0xdfff {
		hex := strconv.FormatUint(uint64(c), 16)
		b.WriteString(`'\u` + hex + `'`)
		return
	}
	b.WriteString(strconv.QuoteRuneToASCII(c))
}
