package kotlin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
)

func TestArgumentValue_String(t *testing.T) {
	nested := NewAnnotation(classfile.MustClassName("a/Nested"), NewArgument("v", BooleanValue(true)))

	tests := []struct {
		name     string
		value    ArgumentValue
		expected string
	}{
		{"byte", ByteValue(-3), "-3"},
		{"char", CharValue('x'), "x"},
		{"short", ShortValue(300), "300"},
		{"int", IntValue(1), "1"},
		{"long", LongValue(1 << 40), "1099511627776"},
		{"float", FloatValue(1.5), "1.5"},
		{"double", DoubleValue(0.25), "0.25"},
		{"boolean", BooleanValue(false), "false"},
		{"ubyte", UByteValue(255), "255"},
		{"ushort", UShortValue(65535), "65535"},
		{"uint", UIntValue(4294967295), "4294967295"},
		{"ulong", ULongValue(math.MaxUint64), "18446744073709551615"},
		{"string", StringValue("hello"), "hello"},
		{"class", ClassValue{ClassName: classfile.MustClassName("kotlin/String")}, "kotlin.String::class"},
		{"array class", ClassValue{ClassName: classfile.MustClassName("a/Foo"), ArrayDimensions: 2}, "Array<Array<a.Foo>>::class"},
		{"enum", EnumValue{ClassName: classfile.MustClassName("a/Level"), EntryName: "HIGH"}, "a.Level.HIGH"},
		{"annotation", AnnotationValue{Annotation: nested}, "@a.Nested(v=true)"},
		{"empty array", ArrayValue{}, "[]"},
		{"array", ArrayValue{Elements: []ArgumentValue{IntValue(1), StringValue("b")}}, "[1, b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestArgumentValue_EqualAndHash(t *testing.T) {
	tests := []struct {
		name  string
		left  ArgumentValue
		right ArgumentValue
		equal bool
	}{
		{"same int", IntValue(7), IntValue(7), true},
		{"int vs uint", IntValue(7), UIntValue(7), false},
		{"float vs double", FloatValue(1), DoubleValue(1), false},
		{"NaN equals itself", DoubleValue(math.NaN()), DoubleValue(math.NaN()), true},
		{"signed zeros differ", DoubleValue(0), DoubleValue(math.Copysign(0, -1)), false},
		{"string vs char", StringValue("a"), CharValue('a'), false},
		{"class dims", ClassValue{ClassName: classfile.MustClassName("A")}, ClassValue{ClassName: classfile.MustClassName("A"), ArrayDimensions: 1}, false},
		{"enum entries", EnumValue{ClassName: classfile.MustClassName("E"), EntryName: "X"}, EnumValue{ClassName: classfile.MustClassName("E"), EntryName: "Y"}, false},
		{"arrays", ArrayValue{Elements: []ArgumentValue{IntValue(1), IntValue(2)}}, ArrayValue{Elements: []ArgumentValue{IntValue(1), IntValue(2)}}, true},
		{"array order", ArrayValue{Elements: []ArgumentValue{IntValue(1), IntValue(2)}}, ArrayValue{Elements: []ArgumentValue{IntValue(2), IntValue(1)}}, false},
		{"nil array vs empty", ArrayValue{}, ArrayValue{Elements: []ArgumentValue{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.left.Equal(tt.right))
			assert.Equal(t, tt.equal, tt.right.Equal(tt.left))

			left := NewAnnotation(classfile.MustClassName("A"), NewArgument("v", tt.left))
			right := NewAnnotation(classfile.MustClassName("A"), NewArgument("v", tt.right))
			assert.Equal(t, tt.equal, left.Equal(right))
			if tt.equal {
				assert.Equal(t, left.Hash(), right.Hash())
			}
		})
	}
}

func TestAnnotationArgument_EqualNames(t *testing.T) {
	assert.True(t, NewArgument("a", IntValue(1)).Equal(NewArgument("a", IntValue(1))))
	assert.False(t, NewArgument("a", IntValue(1)).Equal(NewArgument("b", IntValue(1))))
	assert.False(t, NewArgument("a", IntValue(1)).Equal(nil))
	assert.True(t, NewArgument("a", nil).Equal(NewArgument("a", nil)))
	assert.Equal(t, "a=<nil>", NewArgument("a", nil).String())
}

func TestValuesAccept_DepthFirst(t *testing.T) {
	nested := NewAnnotation(classfile.MustClassName("N"), NewArgument("x", IntValue(2)))
	value := ArrayValue{Elements: []ArgumentValue{
		IntValue(1),
		AnnotationValue{Annotation: nested},
		ArrayValue{Elements: []ArgumentValue{StringValue("s")}},
	}}

	var kinds []ValueKind
	NewArgument("root", value).ValueAccept(ArgumentValueVisitorFunc(func(v ArgumentValue) {
		kinds = append(kinds, v.Kind())
	}))

	assert.Equal(t, []ValueKind{ArrayKind, IntKind, AnnotationKind, IntKind, ArrayKind, StringKind}, kinds)
}

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "int", IntKind.String())
	assert.Equal(t, "annotation", AnnotationKind.String())
	assert.Equal(t, "array", ArrayKind.String())
}
