package kotlin

import (
	"encoding/binary"
	"hash"
	"math"
	"strconv"
	"strings"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
)

// AnnotationArgument is one name/value element of an annotation
type AnnotationArgument struct {
	Name  string
	Value ArgumentValue
}

// NewArgument creates an argument
func NewArgument(name string, value ArgumentValue) *AnnotationArgument {
	return &AnnotationArgument{Name: name, Value: value}
}

// Accept hands the argument to the visitor together with the annotation and container it came from
func (arg *AnnotationArgument) Accept(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation, visitor AnnotationArgumentVisitor) {
	visitor.VisitAnnotationArgument(clazz, annotatable, annotation, arg)
}

// ValueAccept walks the argument value depth first
func (arg *AnnotationArgument) ValueAccept(visitor ArgumentValueVisitor) {
	if arg != nil {
		ValuesAccept(arg.Value, visitor)
	}
}

// Equal compares name and value
func (arg *AnnotationArgument) Equal(other *AnnotationArgument) bool {
	if arg == other {
		return true
	}
	if arg == nil || other == nil {
		return false
	}
	return arg.Name == other.Name && valuesEqual(arg.Value, other.Value)
}

func (arg *AnnotationArgument) String() string {
	if arg == nil {
		return "<nil>"
	}
	return arg.Name + "=" + valueString(arg.Value)
}

func (arg *AnnotationArgument) writeHash(h hash.Hash64) {
	if arg == nil {
		_, _ = h.Write([]byte{0xfe})
		return
	}
	writeString(h, arg.Name)
	writeValueHash(h, arg.Value)
}

// ValueKind identifies the concrete type of an ArgumentValue
type ValueKind int

const (
	ByteKind ValueKind = iota
	CharKind
	ShortKind
	IntKind
	LongKind
	FloatKind
	DoubleKind
	BooleanKind
	UByteKind
	UShortKind
	UIntKind
	ULongKind
	StringKind
	ClassKind
	EnumKind
	AnnotationKind
	ArrayKind
)

// String returns the string representation of the value kind
func (k ValueKind) String() string {
	switch k {
	case ByteKind:
		return "byte"
	case CharKind:
		return "char"
	case ShortKind:
		return "short"
	case IntKind:
		return "int"
	case LongKind:
		return "long"
	case FloatKind:
		return "float"
	case DoubleKind:
		return "double"
	case BooleanKind:
		return "boolean"
	case UByteKind:
		return "ubyte"
	case UShortKind:
		return "ushort"
	case UIntKind:
		return "uint"
	case ULongKind:
		return "ulong"
	case StringKind:
		return "string"
	case ClassKind:
		return "class"
	case EnumKind:
		return "enum"
	case AnnotationKind:
		return "annotation"
	case ArrayKind:
		return "array"
	default:
		return "unknown"
	}
}

// ArgumentValue is the value of an annotation argument. The set of implementations is closed.
type ArgumentValue interface {
	Kind() ValueKind
	Equal(other ArgumentValue) bool
	String() string
	writeHash(h hash.Hash64)
}

type (
	ByteValue    int8
	CharValue    rune
	ShortValue   int16
	IntValue     int32
	LongValue    int64
	FloatValue   float32
	DoubleValue  float64
	BooleanValue bool
	UByteValue   uint8
	UShortValue  uint16
	UIntValue    uint32
	ULongValue   uint64
	StringValue  string
)

// ClassValue is a class literal such as String::class or Array<Array<Foo>>::class
type ClassValue struct {
	ClassName       classfile.ClassName
	ArrayDimensions int
}

// EnumValue is a reference to an enum entry
type EnumValue struct {
	ClassName classfile.ClassName
	EntryName string
}

// AnnotationValue nests an annotation inside another annotation's arguments
type AnnotationValue struct {
	Annotation *Annotation
}

// ArrayValue is an ordered list of values
type ArrayValue struct {
	Elements []ArgumentValue
}

func (ByteValue) Kind() ValueKind       { return ByteKind }
func (CharValue) Kind() ValueKind       { return CharKind }
func (ShortValue) Kind() ValueKind      { return ShortKind }
func (IntValue) Kind() ValueKind        { return IntKind }
func (LongValue) Kind() ValueKind       { return LongKind }
func (FloatValue) Kind() ValueKind      { return FloatKind }
func (DoubleValue) Kind() ValueKind     { return DoubleKind }
func (BooleanValue) Kind() ValueKind    { return BooleanKind }
func (UByteValue) Kind() ValueKind      { return UByteKind }
func (UShortValue) Kind() ValueKind     { return UShortKind }
func (UIntValue) Kind() ValueKind       { return UIntKind }
func (ULongValue) Kind() ValueKind      { return ULongKind }
func (StringValue) Kind() ValueKind     { return StringKind }
func (ClassValue) Kind() ValueKind      { return ClassKind }
func (EnumValue) Kind() ValueKind       { return EnumKind }
func (AnnotationValue) Kind() ValueKind { return AnnotationKind }
func (ArrayValue) Kind() ValueKind      { return ArrayKind }

func (v ByteValue) Equal(o ArgumentValue) bool    { w, ok := o.(ByteValue); return ok && v == w }
func (v CharValue) Equal(o ArgumentValue) bool    { w, ok := o.(CharValue); return ok && v == w }
func (v ShortValue) Equal(o ArgumentValue) bool   { w, ok := o.(ShortValue); return ok && v == w }
func (v IntValue) Equal(o ArgumentValue) bool     { w, ok := o.(IntValue); return ok && v == w }
func (v LongValue) Equal(o ArgumentValue) bool    { w, ok := o.(LongValue); return ok && v == w }
func (v BooleanValue) Equal(o ArgumentValue) bool { w, ok := o.(BooleanValue); return ok && v == w }
func (v UByteValue) Equal(o ArgumentValue) bool   { w, ok := o.(UByteValue); return ok && v == w }
func (v UShortValue) Equal(o ArgumentValue) bool  { w, ok := o.(UShortValue); return ok && v == w }
func (v UIntValue) Equal(o ArgumentValue) bool    { w, ok := o.(UIntValue); return ok && v == w }
func (v ULongValue) Equal(o ArgumentValue) bool   { w, ok := o.(ULongValue); return ok && v == w }
func (v StringValue) Equal(o ArgumentValue) bool  { w, ok := o.(StringValue); return ok && v == w }

// Floating point values compare by bit pattern, so NaN equals NaN and 0.0 differs from -0.0.
func (v FloatValue) Equal(o ArgumentValue) bool {
	w, ok := o.(FloatValue)
	return ok && math.Float32bits(float32(v)) == math.Float32bits(float32(w))
}

func (v DoubleValue) Equal(o ArgumentValue) bool {
	w, ok := o.(DoubleValue)
	return ok && math.Float64bits(float64(v)) == math.Float64bits(float64(w))
}

func (v ClassValue) Equal(o ArgumentValue) bool {
	w, ok := o.(ClassValue)
	return ok && v.ClassName == w.ClassName && v.ArrayDimensions == w.ArrayDimensions
}

func (v EnumValue) Equal(o ArgumentValue) bool {
	w, ok := o.(EnumValue)
	return ok && v.ClassName == w.ClassName && v.EntryName == w.EntryName
}

func (v AnnotationValue) Equal(o ArgumentValue) bool {
	w, ok := o.(AnnotationValue)
	return ok && v.Annotation.Equal(w.Annotation)
}

func (v ArrayValue) Equal(o ArgumentValue) bool {
	w, ok := o.(ArrayValue)
	if !ok || len(v.Elements) != len(w.Elements) {
		return false
	}
	for i, element := range v.Elements {
		if !valuesEqual(element, w.Elements[i]) {
			return false
		}
	}
	return true
}

func (v ByteValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v CharValue) String() string    { return string(rune(v)) }
func (v ShortValue) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v IntValue) String() string     { return strconv.FormatInt(int64(v), 10) }
func (v LongValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v FloatValue) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v DoubleValue) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v BooleanValue) String() string { return strconv.FormatBool(bool(v)) }
func (v UByteValue) String() string   { return strconv.FormatUint(uint64(v), 10) }
func (v UShortValue) String() string  { return strconv.FormatUint(uint64(v), 10) }
func (v UIntValue) String() string    { return strconv.FormatUint(uint64(v), 10) }
func (v ULongValue) String() string   { return strconv.FormatUint(uint64(v), 10) }
func (v StringValue) String() string  { return string(v) }

func (v ClassValue) String() string {
	s := v.ClassName.External()
	for i := 0; i < v.ArrayDimensions; i++ {
		s = "Array<" + s + ">"
	}
	return s + "::class"
}

func (v EnumValue) String() string {
	return v.ClassName.External() + "." + v.EntryName
}

func (v AnnotationValue) String() string {
	if v.Annotation == nil {
		return "@<nil>"
	}
	return "@" + v.Annotation.String()
}

func (v ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, element := range v.Elements {
		parts[i] = valueString(element)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v ByteValue) writeHash(h hash.Hash64)   { writeTagged(h, ByteKind, uint64(v)) }
func (v CharValue) writeHash(h hash.Hash64)   { writeTagged(h, CharKind, uint64(v)) }
func (v ShortValue) writeHash(h hash.Hash64)  { writeTagged(h, ShortKind, uint64(v)) }
func (v IntValue) writeHash(h hash.Hash64)    { writeTagged(h, IntKind, uint64(v)) }
func (v LongValue) writeHash(h hash.Hash64)   { writeTagged(h, LongKind, uint64(v)) }
func (v UByteValue) writeHash(h hash.Hash64)  { writeTagged(h, UByteKind, uint64(v)) }
func (v UShortValue) writeHash(h hash.Hash64) { writeTagged(h, UShortKind, uint64(v)) }
func (v UIntValue) writeHash(h hash.Hash64)   { writeTagged(h, UIntKind, uint64(v)) }
func (v ULongValue) writeHash(h hash.Hash64)  { writeTagged(h, ULongKind, uint64(v)) }

func (v FloatValue) writeHash(h hash.Hash64) {
	writeTagged(h, FloatKind, uint64(math.Float32bits(float32(v))))
}

func (v DoubleValue) writeHash(h hash.Hash64) {
	writeTagged(h, DoubleKind, math.Float64bits(float64(v)))
}

func (v BooleanValue) writeHash(h hash.Hash64) {
	var bit uint64
	if v {
		bit = 1
	}
	writeTagged(h, BooleanKind, bit)
}

func (v StringValue) writeHash(h hash.Hash64) {
	writeKind(h, StringKind)
	writeString(h, string(v))
}

func (v ClassValue) writeHash(h hash.Hash64) {
	writeKind(h, ClassKind)
	writeString(h, v.ClassName.Internal())
	writeLength(h, v.ArrayDimensions)
}

func (v EnumValue) writeHash(h hash.Hash64) {
	writeKind(h, EnumKind)
	writeString(h, v.ClassName.Internal())
	writeString(h, v.EntryName)
}

func (v AnnotationValue) writeHash(h hash.Hash64) {
	writeKind(h, AnnotationKind)
	if v.Annotation != nil {
		v.Annotation.writeHash(h)
	}
}

func (v ArrayValue) writeHash(h hash.Hash64) {
	writeKind(h, ArrayKind)
	writeLength(h, len(v.Elements))
	for _, element := range v.Elements {
		writeValueHash(h, element)
	}
}

func writeKind(h hash.Hash64, kind ValueKind) {
	_, _ = h.Write([]byte{byte(kind)})
}

func writeTagged(h hash.Hash64, kind ValueKind, bits uint64) {
	var buf [9]byte
	buf[0] = byte(kind)
	binary.BigEndian.PutUint64(buf[1:], bits)
	_, _ = h.Write(buf[:])
}

// Missing values only come from hand-built arguments; they hash and compare as their own kind.
func writeValueHash(h hash.Hash64, v ArgumentValue) {
	if v == nil {
		_, _ = h.Write([]byte{0xff})
		return
	}
	v.writeHash(h)
}

func valuesEqual(a, b ArgumentValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func valueString(v ArgumentValue) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// ArgumentValueVisitor receives every value of a value tree
type ArgumentValueVisitor interface {
	VisitValue(value ArgumentValue)
}

// ArgumentValueVisitorFunc adapts a function to an ArgumentValueVisitor
type ArgumentValueVisitorFunc func(value ArgumentValue)

func (f ArgumentValueVisitorFunc) VisitValue(value ArgumentValue) { f(value) }

// ValuesAccept visits value and then, for arrays and nested annotations, everything below it.
// Nested annotations contribute the values of their own arguments.
func ValuesAccept(value ArgumentValue, visitor ArgumentValueVisitor) {
	if value == nil {
		return
	}
	visitor.VisitValue(value)
	switch v := value.(type) {
	case ArrayValue:
		for _, element := range v.Elements {
			ValuesAccept(element, visitor)
		}
	case AnnotationValue:
		if v.Annotation == nil {
			return
		}
		for _, argument := range v.Annotation.Arguments {
			argument.ValueAccept(visitor)
		}
	}
}
