package descriptor

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader()

	program, err := loader.Load([]string{"testdata/*.yaml"}, []string{"kotlin/Unit"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("testdata", "box.yaml"), filepath.Join("testdata", "inline.yaml")}, program.Files)
	assert.Equal(t, []string{"com/example/Box", "com/example/Id", "com/example/Marker", "com/example/Plain"}, program.ProgramPool.ClassNames())
	assert.Equal(t, []string{"kotlin/Metadata", "kotlin/Unit", "kotlin/collections/List", "kotlin/jvm/JvmInline"}, program.LibraryPool.ClassNames())

	// Only classes with a kotlin section produce units.
	require.Len(t, program.Units, 2)
	assert.Equal(t, 7, program.AnnotationCount())

	box := program.Units[0]
	assert.Equal(t, "com/example/Box", box.Clazz.Name().Internal())
	require.Len(t, box.TypeParameters, 1)
	assert.Equal(t, kotlin.Out, box.TypeParameters[0].Variance)
	assert.True(t, box.TypeParameters[0].UpperBounds[0].Nullable)
	assert.Equal(t, "kotlin.collections.List<kotlin.String>", box.SuperTypes[0].String())
	require.Len(t, box.TypeAliases, 1)
	assert.NotNil(t, box.TypeAliases[0].Underlying)
	assert.NotNil(t, box.TypeAliases[0].Expanded)

	programClass, ok := box.Clazz.(*classfile.ProgramClass)
	require.True(t, ok)
	assert.Equal(t, "java/lang/Object", programClass.SuperName)
}

func TestLoader_AnnotationKinds(t *testing.T) {
	program, err := NewLoader().Load([]string{"testdata/box.yaml"}, nil)
	require.NoError(t, err)

	var visits []string
	program.Units[0].AllAnnotationsAccept(kotlin.KindVisitorFunc(
		func(kind kotlin.ContainerKind, _ classfile.Clazz, _ kotlin.Annotatable, annotation *kotlin.Annotation) {
			visits = append(visits, kind.String()+" "+annotation.ClassName().Internal())
		}))

	assert.Equal(t, []string{
		"any kotlin/Metadata",
		"type-parameter com/example/Marker",
		"type com/example/Bound",
		"type com/example/Marker",
		"type-alias com/example/Alias",
	}, visits)
}

func TestLoader_FreshAnnotationsPerLoad(t *testing.T) {
	loader := NewLoader()

	first, err := loader.Load([]string{"testdata/inline.yaml"}, nil)
	require.NoError(t, err)
	second, err := loader.Load([]string{"testdata/inline.yaml"}, nil)
	require.NoError(t, err)

	a := first.Units[0].Annotations[0]
	b := second.Units[0].Annotations[0]
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))

	stats := loader.CacheStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 1, stats.Hits)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
		message string
	}{
		{
			name:    "bad literal",
			content: "classes:\n  - name: a/A\n    kotlin:\n      annotations:\n        - 'a/B(x=)'\n",
			code:    errors.SyntaxErrorCode,
			message: "bad.yaml",
		},
		{
			name:    "unknown field",
			content: "classes:\n  - name: a/A\n    color: red\n",
			code:    errors.SyntaxErrorCode,
			message: "failed to parse manifest",
		},
		{
			name:    "empty class name",
			content: "classes:\n  - name: ''\n",
			code:    errors.InvalidArgumentErrorCode,
			message: "class name cannot be empty",
		},
		{
			name:    "bad variance",
			content: "classes:\n  - name: a/A\n    kotlin:\n      typeParameters:\n        - name: T\n          variance: sideways\n",
			code:    errors.InvalidArgumentErrorCode,
			message: "variance must be one of: [invariant in out]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, dir, "bad.yaml", tt.content)

			_, err := NewLoader().Load([]string{path}, nil)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoader_DuplicateProgramClass(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.yaml", "classes:\n  - name: a/A\n")
	writeManifest(t, dir, "b.yaml", "classes:\n  - name: a/A\n")

	_, err := NewLoader().Load([]string{filepath.Join(dir, "*.yaml")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	var coded errors.MetadataError
	require.True(t, stderrors.As(err, &coded))
	assert.Equal(t, errors.InvalidArgumentErrorCode, coded.ErrorCode())
	assert.Equal(t, filepath.Join(dir, "b.yaml"), coded.Location().File)
	assert.Contains(t, coded.Error(), "failed to load classes[0]")
}

func TestLoader_EmptyManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "empty.yaml", "")

	program, err := NewLoader().Load([]string{path}, nil)
	require.NoError(t, err)
	assert.Empty(t, program.Units)
	assert.Equal(t, 0, program.ProgramPool.Size())
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	a := writeManifest(t, dir, "a.yaml", "")
	nested := writeManifest(t, dir, filepath.Join("x", "y", "b.yaml"), "")
	writeManifest(t, dir, "notes.txt", "")

	files, err := ExpandPatterns([]string{
		filepath.Join(dir, "**", "*.yaml"),
		a,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{a, nested}, files)

	files, err = ExpandPatterns([]string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = ExpandPatterns([]string{filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
}
