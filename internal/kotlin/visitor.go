package kotlin

import "github.com/PranavPurwar/proguard-core/internal/classfile"

// AnnotationVisitor receives an annotation through the callback matching the container it came from
type AnnotationVisitor interface {
	VisitAnyAnnotation(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation)
	VisitTypeAnnotation(clazz classfile.Clazz, typ *TypeMetadata, annotation *Annotation)
	VisitTypeAliasAnnotation(clazz classfile.Clazz, alias *TypeAliasMetadata, annotation *Annotation)
	VisitTypeParameterAnnotation(clazz classfile.Clazz, param *TypeParameterMetadata, annotation *Annotation)
}

// AnnotationArgumentVisitor receives the arguments of an annotation
type AnnotationArgumentVisitor interface {
	VisitAnnotationArgument(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation, argument *AnnotationArgument)
}

// AnnotationArgumentVisitorFunc adapts a function to an AnnotationArgumentVisitor
type AnnotationArgumentVisitorFunc func(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation, argument *AnnotationArgument)

func (f AnnotationArgumentVisitorFunc) VisitAnnotationArgument(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation, argument *AnnotationArgument) {
	f(clazz, annotatable, annotation, argument)
}

// ContainerKind names the kind of node an annotation was taken from.
// It only travels with a visit and is never stored on the annotation.
type ContainerKind int

const (
	AnyContainer ContainerKind = iota
	TypeContainer
	TypeAliasContainer
	TypeParameterContainer
)

// String returns the string representation of the container kind
func (k ContainerKind) String() string {
	switch k {
	case TypeContainer:
		return "type"
	case TypeAliasContainer:
		return "type-alias"
	case TypeParameterContainer:
		return "type-parameter"
	default:
		return "any"
	}
}

// AnnotationVisitorFunc adapts a function to an AnnotationVisitor.
// Every callback forwards to the function with the container as an Annotatable.
type AnnotationVisitorFunc func(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation)

func (f AnnotationVisitorFunc) VisitAnyAnnotation(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation) {
	f(clazz, annotatable, annotation)
}

func (f AnnotationVisitorFunc) VisitTypeAnnotation(clazz classfile.Clazz, typ *TypeMetadata, annotation *Annotation) {
	f(clazz, typ, annotation)
}

func (f AnnotationVisitorFunc) VisitTypeAliasAnnotation(clazz classfile.Clazz, alias *TypeAliasMetadata, annotation *Annotation) {
	f(clazz, alias, annotation)
}

func (f AnnotationVisitorFunc) VisitTypeParameterAnnotation(clazz classfile.Clazz, param *TypeParameterMetadata, annotation *Annotation) {
	f(clazz, param, annotation)
}

// KindVisitorFunc adapts a function to an AnnotationVisitor that also learns the container kind
type KindVisitorFunc func(kind ContainerKind, clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation)

func (f KindVisitorFunc) VisitAnyAnnotation(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation) {
	f(AnyContainer, clazz, annotatable, annotation)
}

func (f KindVisitorFunc) VisitTypeAnnotation(clazz classfile.Clazz, typ *TypeMetadata, annotation *Annotation) {
	f(TypeContainer, clazz, typ, annotation)
}

func (f KindVisitorFunc) VisitTypeAliasAnnotation(clazz classfile.Clazz, alias *TypeAliasMetadata, annotation *Annotation) {
	f(TypeAliasContainer, clazz, alias, annotation)
}

func (f KindVisitorFunc) VisitTypeParameterAnnotation(clazz classfile.Clazz, param *TypeParameterMetadata, annotation *Annotation) {
	f(TypeParameterContainer, clazz, param, annotation)
}

// MultiAnnotationVisitor forwards every callback to each visitor in order
type MultiAnnotationVisitor []AnnotationVisitor

func (m MultiAnnotationVisitor) VisitAnyAnnotation(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation) {
	for _, visitor := range m {
		annotation.Accept(clazz, annotatable, visitor)
	}
}

func (m MultiAnnotationVisitor) VisitTypeAnnotation(clazz classfile.Clazz, typ *TypeMetadata, annotation *Annotation) {
	for _, visitor := range m {
		annotation.AcceptType(clazz, typ, visitor)
	}
}

func (m MultiAnnotationVisitor) VisitTypeAliasAnnotation(clazz classfile.Clazz, alias *TypeAliasMetadata, annotation *Annotation) {
	for _, visitor := range m {
		annotation.AcceptTypeAlias(clazz, alias, visitor)
	}
}

func (m MultiAnnotationVisitor) VisitTypeParameterAnnotation(clazz classfile.Clazz, param *TypeParameterMetadata, annotation *Annotation) {
	for _, visitor := range m {
		annotation.AcceptTypeParameter(clazz, param, visitor)
	}
}

// AnnotationFilter forwards only the annotations whose class name satisfies Accepts
type AnnotationFilter struct {
	Accepts func(name classfile.ClassName) bool
	Visitor AnnotationVisitor
}

// NewClassNameFilter forwards annotations of exactly the given internal class names
func NewClassNameFilter(visitor AnnotationVisitor, internalNames ...string) *AnnotationFilter {
	names := make(map[string]struct{}, len(internalNames))
	for _, name := range internalNames {
		names[name] = struct{}{}
	}
	return &AnnotationFilter{
		Accepts: func(name classfile.ClassName) bool {
			_, ok := names[name.Internal()]
			return ok
		},
		Visitor: visitor,
	}
}

func (f *AnnotationFilter) VisitAnyAnnotation(clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation) {
	if f.Accepts(annotation.ClassName()) {
		annotation.Accept(clazz, annotatable, f.Visitor)
	}
}

func (f *AnnotationFilter) VisitTypeAnnotation(clazz classfile.Clazz, typ *TypeMetadata, annotation *Annotation) {
	if f.Accepts(annotation.ClassName()) {
		annotation.AcceptType(clazz, typ, f.Visitor)
	}
}

func (f *AnnotationFilter) VisitTypeAliasAnnotation(clazz classfile.Clazz, alias *TypeAliasMetadata, annotation *Annotation) {
	if f.Accepts(annotation.ClassName()) {
		annotation.AcceptTypeAlias(clazz, alias, f.Visitor)
	}
}

func (f *AnnotationFilter) VisitTypeParameterAnnotation(clazz classfile.Clazz, param *TypeParameterMetadata, annotation *Annotation) {
	if f.Accepts(annotation.ClassName()) {
		annotation.AcceptTypeParameter(clazz, param, f.Visitor)
	}
}
