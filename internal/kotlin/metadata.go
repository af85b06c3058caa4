package kotlin

import (
	"strings"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// Annotatable is any metadata node that owns annotations
type Annotatable interface {
	AnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor)
}

// TypeMetadata is a type use, e.g. the supertype List<@Ann String>
type TypeMetadata struct {
	ClassName   classfile.ClassName
	Nullable    bool
	Arguments   []*TypeMetadata
	Annotations []*Annotation
}

// AnnotationsAccept dispatches the annotations of this type through AcceptType
func (t *TypeMetadata) AnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	for _, annotation := range t.Annotations {
		annotation.AcceptType(clazz, t, visitor)
	}
}

// AllAnnotationsAccept visits this type's annotations and those of its type arguments
func (t *TypeMetadata) AllAnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	t.AnnotationsAccept(clazz, visitor)
	for _, argument := range t.Arguments {
		argument.AllAnnotationsAccept(clazz, visitor)
	}
}

func (t *TypeMetadata) String() string {
	var b strings.Builder
	b.WriteString(t.ClassName.External())
	if len(t.Arguments) > 0 {
		b.WriteByte('<')
		for i, argument := range t.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(argument.String())
		}
		b.WriteByte('>')
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// Variance of a type parameter
type Variance int

const (
	Invariant Variance = iota
	In
	Out
)

// String returns the Kotlin keyword for the variance, empty for invariant
func (v Variance) String() string {
	switch v {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return ""
	}
}

var varianceNames = utils.IsOneOf("variance", "invariant", "in", "out")

// ParseVariance converts "", "invariant", "in" or "out" to a Variance
func ParseVariance(s string) (Variance, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Invariant, nil
	}
	if err := varianceNames(name); err != nil {
		return Invariant, err
	}
	switch name {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	default:
		return Invariant, nil
	}
}

// TypeParameterMetadata is a declared type parameter such as <out T : Any>
type TypeParameterMetadata struct {
	Name        string
	ID          int
	Variance    Variance
	UpperBounds []*TypeMetadata
	Annotations []*Annotation
}

// AnnotationsAccept dispatches the annotations of this type parameter through AcceptTypeParameter
func (p *TypeParameterMetadata) AnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	for _, annotation := range p.Annotations {
		annotation.AcceptTypeParameter(clazz, p, visitor)
	}
}

// AllAnnotationsAccept also visits the annotations on the upper bounds
func (p *TypeParameterMetadata) AllAnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	p.AnnotationsAccept(clazz, visitor)
	for _, bound := range p.UpperBounds {
		bound.AllAnnotationsAccept(clazz, visitor)
	}
}

func (p *TypeParameterMetadata) String() string {
	if p.Variance == Invariant {
		return p.Name
	}
	return p.Variance.String() + " " + p.Name
}

// TypeAliasMetadata is a typealias declaration
type TypeAliasMetadata struct {
	Name           string
	TypeParameters []*TypeParameterMetadata
	Underlying     *TypeMetadata
	Expanded       *TypeMetadata
	Annotations    []*Annotation
}

// AnnotationsAccept dispatches the annotations of this alias through AcceptTypeAlias
func (a *TypeAliasMetadata) AnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	for _, annotation := range a.Annotations {
		annotation.AcceptTypeAlias(clazz, a, visitor)
	}
}

// AllAnnotationsAccept visits the alias, its type parameters and both of its types
func (a *TypeAliasMetadata) AllAnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	a.AnnotationsAccept(clazz, visitor)
	for _, param := range a.TypeParameters {
		param.AllAnnotationsAccept(clazz, visitor)
	}
	if a.Underlying != nil {
		a.Underlying.AllAnnotationsAccept(clazz, visitor)
	}
	if a.Expanded != nil {
		a.Expanded.AllAnnotationsAccept(clazz, visitor)
	}
}

func (a *TypeAliasMetadata) String() string {
	return "typealias " + a.Name
}

// ClassMetadata is the Kotlin metadata of one class file
type ClassMetadata struct {
	Clazz          classfile.Clazz
	Annotations    []*Annotation
	TypeParameters []*TypeParameterMetadata
	SuperTypes     []*TypeMetadata
	TypeAliases    []*TypeAliasMetadata
}

// AnnotationsAccept dispatches the class-level annotations through the generic entry point
func (m *ClassMetadata) AnnotationsAccept(clazz classfile.Clazz, visitor AnnotationVisitor) {
	for _, annotation := range m.Annotations {
		annotation.Accept(clazz, m, visitor)
	}
}

// AllAnnotationsAccept visits every annotation in the metadata tree with m.Clazz as owning class
func (m *ClassMetadata) AllAnnotationsAccept(visitor AnnotationVisitor) {
	m.AnnotationsAccept(m.Clazz, visitor)
	for _, param := range m.TypeParameters {
		param.AllAnnotationsAccept(m.Clazz, visitor)
	}
	for _, superType := range m.SuperTypes {
		superType.AllAnnotationsAccept(m.Clazz, visitor)
	}
	for _, alias := range m.TypeAliases {
		alias.AllAnnotationsAccept(m.Clazz, visitor)
	}
}

func (m *ClassMetadata) String() string {
	if m.Clazz == nil {
		return "<unbound metadata>"
	}
	return m.Clazz.Name().External()
}
