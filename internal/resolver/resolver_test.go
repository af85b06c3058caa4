package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/descriptor"
	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
)

func parse(t *testing.T, literal string) *kotlin.Annotation {
	t.Helper()
	annotation, err := descriptor.ParseAnnotation(literal)
	require.NoError(t, err)
	return annotation
}

func pools(t *testing.T) (*classfile.ClassPool, *classfile.ClassPool) {
	t.Helper()
	program := classfile.NewClassPool()
	library := classfile.NewClassPool()
	require.NoError(t, program.AddClass(classfile.NewProgramClass(classfile.MustClassName("com/example/Marker"), "")))
	require.NoError(t, program.AddClass(classfile.NewProgramClass(classfile.MustClassName("com/example/Shadow"), "")))
	require.NoError(t, library.AddClass(classfile.NewLibraryClass(classfile.MustClassName("kotlin/Metadata"))))
	require.NoError(t, library.AddClass(classfile.NewLibraryClass(classfile.MustClassName("com/example/Shadow"))))
	return program, library
}

func TestInitializer_Run(t *testing.T) {
	program, library := pools(t)
	clazz := classfile.NewProgramClass(classfile.MustClassName("com/example/Box"), "")

	metadata := parse(t, `kotlin/Metadata(k=1, n=[@com/example/Marker(), @com/example/Gone()])`)
	onType := parse(t, `com/example/Shadow()`)
	missing := parse(t, `com/example/Gone()`)

	unit := &kotlin.ClassMetadata{
		Clazz:       clazz,
		Annotations: []*kotlin.Annotation{metadata},
		SuperTypes: []*kotlin.TypeMetadata{{
			ClassName:   classfile.MustClassName("kotlin/Any"),
			Annotations: []*kotlin.Annotation{onType},
		}},
		TypeAliases: []*kotlin.TypeAliasMetadata{{Name: "A", Annotations: []*kotlin.Annotation{missing}}},
	}

	initializer := &Initializer{ProgramPool: program, LibraryPool: library, Workers: 2}
	stats, err := initializer.Run(context.Background(), []*kotlin.ClassMetadata{unit})
	require.NoError(t, err)

	assert.NotEmpty(t, stats.PassID)
	assert.Equal(t, 1, stats.Units)
	assert.Equal(t, 5, stats.Annotations)
	assert.Equal(t, 3, stats.Resolved)
	assert.Equal(t, 2, stats.Unresolved)
	assert.Equal(t, []string{"com/example/Gone"}, stats.Missing)

	_, isLibrary := metadata.ReferencedClass().(*classfile.LibraryClass)
	assert.True(t, isLibrary)

	// Program classes win over library classes with the same name.
	_, isProgram := onType.ReferencedClass().(*classfile.ProgramClass)
	assert.True(t, isProgram)

	assert.Nil(t, missing.ReferencedClass())
	assert.Equal(t, stats.PassID, missing.ResolvedInPass())

	nested := metadata.Arguments[1].Value.(kotlin.ArrayValue).Elements[0].(kotlin.AnnotationValue).Annotation
	require.NotNil(t, nested.ReferencedClass())
	assert.Equal(t, "com/example/Marker", nested.ReferencedClass().Name().Internal())
}

func TestInitializer_NewPassMayReresolve(t *testing.T) {
	program, library := pools(t)
	annotation := parse(t, `com/example/Marker()`)
	units := []*kotlin.ClassMetadata{{
		Clazz:       classfile.NewLibraryClass(classfile.MustClassName("L")),
		Annotations: []*kotlin.Annotation{annotation},
	}}

	first, err := (&Initializer{ProgramPool: program, LibraryPool: library}).Run(context.Background(), units)
	require.NoError(t, err)

	// The class moves from the program pool to a fresh library pool.
	fresh := classfile.NewClassPool()
	require.NoError(t, fresh.AddClass(classfile.NewLibraryClass(classfile.MustClassName("com/example/Marker"))))
	second, err := (&Initializer{LibraryPool: fresh}).Run(context.Background(), units)
	require.NoError(t, err)

	assert.NotEqual(t, first.PassID, second.PassID)
	assert.Equal(t, second.PassID, annotation.ResolvedInPass())
	_, isLibrary := annotation.ReferencedClass().(*classfile.LibraryClass)
	assert.True(t, isLibrary)
}

func TestInitializer_SharedInstanceInOnePass(t *testing.T) {
	program, library := pools(t)
	shared := parse(t, `com/example/Marker()`)
	unit := &kotlin.ClassMetadata{
		Clazz:       classfile.NewLibraryClass(classfile.MustClassName("L")),
		Annotations: []*kotlin.Annotation{shared, shared},
	}

	stats, err := (&Initializer{ProgramPool: program, LibraryPool: library}).Run(context.Background(), []*kotlin.ClassMetadata{unit})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ResolutionErrorCode), "got %v", err)
	assert.Equal(t, 1, stats.Annotations)
	assert.Equal(t, 1, stats.Resolved)
}

func TestInitializer_ManyUnits(t *testing.T) {
	program, library := pools(t)
	var units []*kotlin.ClassMetadata
	for i := 0; i < 50; i++ {
		units = append(units, &kotlin.ClassMetadata{
			Clazz: classfile.NewLibraryClass(classfile.MustClassName("L")),
			Annotations: []*kotlin.Annotation{
				parse(t, `kotlin/Metadata(k=1)`),
				parse(t, `kotlin/Unknown()`),
			},
		})
	}

	stats, err := (&Initializer{ProgramPool: program, LibraryPool: library, Workers: 4}).Run(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Units)
	assert.Equal(t, 100, stats.Annotations)
	assert.Equal(t, 50, stats.Resolved)
	assert.Equal(t, []string{"kotlin/Unknown"}, stats.Missing)
}

func TestInitializer_NilArguments(t *testing.T) {
	program, library := pools(t)
	nested := parse(t, `kotlin/Metadata()`)
	annotation := kotlin.NewAnnotation(classfile.MustClassName("com/example/Marker"),
		nil, kotlin.NewArgument("n", kotlin.AnnotationValue{Annotation: nested}))
	units := []*kotlin.ClassMetadata{{
		Clazz:       classfile.NewLibraryClass(classfile.MustClassName("L")),
		Annotations: []*kotlin.Annotation{annotation},
	}}

	stats, err := (&Initializer{ProgramPool: program, LibraryPool: library}).Run(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Annotations)
	assert.Equal(t, 2, stats.Resolved)
	assert.NotNil(t, nested.ReferencedClass())
}

func TestInitializer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units := []*kotlin.ClassMetadata{{Clazz: classfile.NewLibraryClass(classfile.MustClassName("L"))}}
	_, err := (&Initializer{}).Run(ctx, units)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInitializer_NoUnits(t *testing.T) {
	stats, err := (&Initializer{}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Annotations)
	assert.Empty(t, stats.Missing)
}
