package kotlin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
)

func sampleMetadata() *ClassMetadata {
	ann := func(name string) *Annotation {
		return NewAnnotation(classfile.MustClassName(name))
	}
	clazz := classfile.NewProgramClass(classfile.MustClassName("com/example/Box"), "java/lang/Object")

	return &ClassMetadata{
		Clazz:       clazz,
		Annotations: []*Annotation{ann("kotlin/Metadata")},
		TypeParameters: []*TypeParameterMetadata{{
			Name:        "T",
			Variance:    Out,
			Annotations: []*Annotation{ann("a/OnParam")},
			UpperBounds: []*TypeMetadata{{
				ClassName:   classfile.MustClassName("kotlin/Any"),
				Annotations: []*Annotation{ann("a/OnBound")},
			}},
		}},
		SuperTypes: []*TypeMetadata{{
			ClassName: classfile.MustClassName("kotlin/collections/List"),
			Arguments: []*TypeMetadata{{
				ClassName:   classfile.MustClassName("kotlin/String"),
				Nullable:    true,
				Annotations: []*Annotation{ann("a/OnArgument")},
			}},
		}},
		TypeAliases: []*TypeAliasMetadata{{
			Name:        "Names",
			Annotations: []*Annotation{ann("a/OnAlias")},
			Underlying: &TypeMetadata{
				ClassName:   classfile.MustClassName("kotlin/collections/List"),
				Annotations: []*Annotation{ann("a/OnUnderlying")},
			},
		}},
	}
}

func TestClassMetadata_AllAnnotationsAccept(t *testing.T) {
	metadata := sampleMetadata()

	var visits []string
	metadata.AllAnnotationsAccept(KindVisitorFunc(func(kind ContainerKind, clazz classfile.Clazz, annotatable Annotatable, annotation *Annotation) {
		assert.Same(t, metadata.Clazz, clazz)
		visits = append(visits, kind.String()+" "+annotation.ClassName().Internal())
	}))

	assert.Equal(t, []string{
		"any kotlin/Metadata",
		"type-parameter a/OnParam",
		"type a/OnBound",
		"type a/OnArgument",
		"type-alias a/OnAlias",
		"type a/OnUnderlying",
	}, visits)
}

func TestAnnotationsAccept_PassesOwningContainer(t *testing.T) {
	metadata := sampleMetadata()
	param := metadata.TypeParameters[0]

	var containers []Annotatable
	param.AllAnnotationsAccept(metadata.Clazz, AnnotationVisitorFunc(func(_ classfile.Clazz, annotatable Annotatable, _ *Annotation) {
		containers = append(containers, annotatable)
	}))

	require.Len(t, containers, 2)
	assert.Same(t, param, containers[0])
	assert.Same(t, param.UpperBounds[0], containers[1])
}

func TestAnnotationFilter(t *testing.T) {
	metadata := sampleMetadata()
	recorder := &recordingVisitor{}

	metadata.AllAnnotationsAccept(NewClassNameFilter(recorder, "a/OnAlias", "a/OnArgument"))

	assert.Equal(t, []string{"type:a.OnArgument()", "type-alias:a.OnAlias()"}, recorder.calls)
}

func TestMultiAnnotationVisitor(t *testing.T) {
	first, second := &recordingVisitor{}, &recordingVisitor{}
	metadata := &ClassMetadata{
		Clazz:       classfile.NewLibraryClass(classfile.MustClassName("L")),
		Annotations: []*Annotation{NewAnnotation(classfile.MustClassName("A"))},
	}

	metadata.AllAnnotationsAccept(MultiAnnotationVisitor{first, second})

	assert.Equal(t, []string{"any:A()"}, first.calls)
	assert.Equal(t, first.calls, second.calls)
}

func TestTypeMetadata_String(t *testing.T) {
	metadata := sampleMetadata()
	assert.Equal(t, "kotlin.collections.List<kotlin.String?>", metadata.SuperTypes[0].String())
	assert.Equal(t, "out T", metadata.TypeParameters[0].String())
	assert.Equal(t, "typealias Names", metadata.TypeAliases[0].String())
	assert.Equal(t, "com.example.Box", metadata.String())
}

func TestParseVariance(t *testing.T) {
	tests := []struct {
		input    string
		expected Variance
		wantErr  bool
	}{
		{"", Invariant, false},
		{"invariant", Invariant, false},
		{"IN", In, false},
		{" out ", Out, false},
		{"sideways", Invariant, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariance(tt.input)
			if tt.wantErr {
				assert.EqualError(t, err, "variance must be one of: [invariant in out]")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
