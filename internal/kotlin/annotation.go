// Package kotlin models the annotations found in Kotlin metadata and the
// metadata nodes that carry them.
//
// An Annotation has no notion of where it is attached. Callers pick one of
// the four Accept entry points based on the container they obtained it from,
// and the visitor receives the matching typed callback.
package kotlin

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"strings"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/errors"
)

// Annotation is one use of an annotation class inside Kotlin metadata.
//
// Equality and hashing cover the class name and the ordered arguments only.
// The referenced class and the processing state are derived and never compared.
type Annotation struct {
	classfile.Processable

	className       classfile.ClassName
	referencedClass classfile.Clazz
	resolvedInPass  string

	// Arguments may hold nil entries. They compare, hash and print as null
	// and are skipped by visitors.
	Arguments []*AnnotationArgument
}

// NewAnnotation creates an annotation of the given class with its arguments in declaration order.
// It panics if name is the zero ClassName.
func NewAnnotation(name classfile.ClassName, arguments ...*AnnotationArgument) *Annotation {
	if name.IsZero() {
		panic(errors.NewInvalidArgumentError("className", "", "class name cannot be empty"))
	}
	if arguments == nil {
		arguments = []*AnnotationArgument{}
	}
	return &Annotation{
		className: name,
		Arguments: arguments,
	}
}

// ParseAnnotation is NewAnnotation for a raw internal class name
func ParseAnnotation(internalName string, arguments ...*AnnotationArgument) (*Annotation, error) {
	name, err := classfile.NewClassName(internalName)
	if err != nil {
		return nil, err
	}
	return NewAnnotation(name, arguments...), nil
}

// ClassName returns the annotation class in internal form
func (a *Annotation) ClassName() classfile.ClassName {
	return a.className
}

// ReferencedClass returns the resolved annotation class, or nil if resolution has not found it
func (a *Annotation) ReferencedClass() classfile.Clazz {
	return a.referencedClass
}

// ResolvedInPass returns the ID of the resolution pass that last visited this annotation
func (a *Annotation) ResolvedInPass() string {
	return a.resolvedInPass
}

// SetReferencedClass records the outcome of resolution pass passID. clazz may be nil
// when the class is not part of the analyzed universe. Each pass may set it once.
func (a *Annotation) SetReferencedClass(passID string, clazz classfile.Clazz) error {
	if passID != "" && a.resolvedInPass == passID {
		return errors.NewResolutionError(a.className.Internal(), passID, "annotation already resolved in this pass")
	}
	a.referencedClass = clazz
	a.resolvedInPass = passID
	return nil
}

// Accept dispatches to VisitAnyAnnotation for an annotation taken from a generic container
func (a *Annotation) Accept(clazz classfile.Clazz, annotatable Annotatable, visitor AnnotationVisitor) {
	visitor.VisitAnyAnnotation(clazz, annotatable, a)
}

// AcceptType dispatches to VisitTypeAnnotation
func (a *Annotation) AcceptType(clazz classfile.Clazz, typ *TypeMetadata, visitor AnnotationVisitor) {
	visitor.VisitTypeAnnotation(clazz, typ, a)
}

// AcceptTypeAlias dispatches to VisitTypeAliasAnnotation
func (a *Annotation) AcceptTypeAlias(clazz classfile.Clazz, alias *TypeAliasMetadata, visitor AnnotationVisitor) {
	visitor.VisitTypeAliasAnnotation(clazz, alias, a)
}

// AcceptTypeParameter dispatches to VisitTypeParameterAnnotation
func (a *Annotation) AcceptTypeParameter(clazz classfile.Clazz, param *TypeParameterMetadata, visitor AnnotationVisitor) {
	visitor.VisitTypeParameterAnnotation(clazz, param, a)
}

// ReferencedClassAccept visits the referenced class, if resolution found one
func (a *Annotation) ReferencedClassAccept(visitor classfile.ClassVisitor) {
	if a.referencedClass != nil {
		a.referencedClass.Accept(visitor)
	}
}

// ArgumentsAccept visits every argument in declaration order
func (a *Annotation) ArgumentsAccept(clazz classfile.Clazz, annotatable Annotatable, visitor AnnotationArgumentVisitor) {
	for _, argument := range a.Arguments {
		if argument != nil {
			argument.Accept(clazz, annotatable, a, visitor)
		}
	}
}

// Equal reports whether both annotations have the same class and the same arguments in the same order
func (a *Annotation) Equal(other *Annotation) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	if a.className != other.className || len(a.Arguments) != len(other.Arguments) {
		return false
	}
	for i, argument := range a.Arguments {
		if !argument.Equal(other.Arguments[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal
func (a *Annotation) Hash() uint64 {
	h := fnv.New64a()
	a.writeHash(h)
	return h.Sum64()
}

func (a *Annotation) writeHash(h hash.Hash64) {
	writeString(h, a.className.Internal())
	writeLength(h, len(a.Arguments))
	for _, argument := range a.Arguments {
		argument.writeHash(h)
	}
}

// String renders e.g. "kotlin.Metadata(k=1, d1=[...])". It is meant for diagnostics only.
func (a *Annotation) String() string {
	var b strings.Builder
	b.WriteString(a.className.External())
	b.WriteByte('(')
	for i, argument := range a.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(argument.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Strings are length-prefixed so that adjacent fields cannot collide.
func writeString(h hash.Hash64, s string) {
	writeLength(h, len(s))
	_, _ = h.Write([]byte(s))
}

func writeLength(h hash.Hash64, n int) {
	var buf [binary.MaxVarintLen64]byte
	_, _ = h.Write(buf[:binary.PutUvarint(buf[:], uint64(n))])
}
