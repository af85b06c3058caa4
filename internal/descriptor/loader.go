package descriptor

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// Manifest is the YAML form of a set of classes and their Kotlin metadata
type Manifest struct {
	LibraryClasses []string     `yaml:"libraryClasses"`
	Classes        []ClassEntry `yaml:"classes"`
}

// ClassEntry describes one program class
type ClassEntry struct {
	Name   string       `yaml:"name"`
	Super  string       `yaml:"super"`
	Kotlin *KotlinEntry `yaml:"kotlin"`
}

// KotlinEntry holds the metadata of a class. Annotations are annotation literals.
type KotlinEntry struct {
	Annotations    []string             `yaml:"annotations"`
	TypeParameters []TypeParameterEntry `yaml:"typeParameters"`
	SuperTypes     []TypeEntry          `yaml:"superTypes"`
	TypeAliases    []TypeAliasEntry     `yaml:"typeAliases"`
}

type TypeEntry struct {
	Class       string      `yaml:"class"`
	Nullable    bool        `yaml:"nullable"`
	Arguments   []TypeEntry `yaml:"arguments"`
	Annotations []string    `yaml:"annotations"`
}

type TypeParameterEntry struct {
	Name        string      `yaml:"name"`
	ID          int         `yaml:"id"`
	Variance    string      `yaml:"variance"`
	UpperBounds []TypeEntry `yaml:"upperBounds"`
	Annotations []string    `yaml:"annotations"`
}

type TypeAliasEntry struct {
	Name           string               `yaml:"name"`
	TypeParameters []TypeParameterEntry `yaml:"typeParameters"`
	Underlying     *TypeEntry           `yaml:"underlying"`
	Expanded       *TypeEntry           `yaml:"expanded"`
	Annotations    []string             `yaml:"annotations"`
}

// Program is everything read from a set of manifests
type Program struct {
	ProgramPool *classfile.ClassPool
	LibraryPool *classfile.ClassPool
	Units       []*kotlin.ClassMetadata
	Files       []string
}

// AnnotationCount returns the number of annotations reachable from all units
func (p *Program) AnnotationCount() int {
	count := 0
	for _, unit := range p.Units {
		unit.AllAnnotationsAccept(kotlin.AnnotationVisitorFunc(func(classfile.Clazz, kotlin.Annotatable, *kotlin.Annotation) {
			count++
		}))
	}
	return count
}

// Loader reads manifests from disk. Decoded manifests are cached until the file changes.
type Loader struct {
	parser *Parser
	cache  *utils.Cache[string, *Manifest]
}

// NewLoader creates a loader with an empty cache
func NewLoader() *Loader {
	return &Loader{
		parser: NewParser(),
		cache:  utils.NewCache[string, *Manifest](),
	}
}

// CacheStats exposes the manifest cache counters
func (l *Loader) CacheStats() utils.CacheStats {
	return l.cache.GetStats()
}

// ExpandPatterns resolves doublestar glob patterns into a sorted list of unique files.
// A pattern without glob characters must name an existing file.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.WrapFileSystemError("expand", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, errors.WrapFileSystemError("read", pattern, os.ErrNotExist)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// LoadManifest decodes a single manifest file
func (l *Loader) LoadManifest(path string) (*Manifest, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if manifest, ok := l.cache.GetWithFileValidation(key, path); ok {
		return manifest, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	var manifest Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapParseError("manifest", err).
			WithLocation(errors.SourceLocation{File: path})
	}

	// A failed stat only disables caching for this file.
	_ = l.cache.SetWithFileInfo(key, &manifest, path)
	return &manifest, nil
}

// Load reads every file matched by patterns and builds the class pools and metadata units.
// extraLibrary names library classes that are known without appearing in any manifest.
func (l *Loader) Load(patterns []string, extraLibrary []string) (*Program, error) {
	files, err := ExpandPatterns(patterns)
	if err != nil {
		return nil, err
	}

	program := &Program{
		ProgramPool: classfile.NewClassPool(),
		LibraryPool: classfile.NewClassPool(),
		Files:       files,
	}
	if err := addLibraryClasses(program.LibraryPool, extraLibrary); err != nil {
		return nil, err
	}

	for _, file := range files {
		manifest, err := l.LoadManifest(file)
		if err != nil {
			return nil, err
		}
		if err := addLibraryClasses(program.LibraryPool, manifest.LibraryClasses); err != nil {
			return nil, loadError(file, "library classes", err)
		}
		units, err := l.build(file, manifest, program.ProgramPool)
		if err != nil {
			return nil, err
		}
		program.Units = append(program.Units, units...)
	}
	return program, nil
}

// loadError ties a failure to the manifest entry it came from and keeps the cause's code
func loadError(file, item string, cause error) error {
	return errors.WrapWithOperation("load", item, cause).
		WithLocation(errors.SourceLocation{File: file})
}

func addLibraryClasses(pool *classfile.ClassPool, names []string) error {
	for _, name := range names {
		if pool.Contains(name) {
			continue
		}
		className, err := classfile.NewClassName(name)
		if err != nil {
			return err
		}
		if err := pool.AddClass(classfile.NewLibraryClass(className)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) build(file string, manifest *Manifest, pool *classfile.ClassPool) ([]*kotlin.ClassMetadata, error) {
	units := make([]*kotlin.ClassMetadata, 0, len(manifest.Classes))
	for i, entry := range manifest.Classes {
		className, err := classfile.NewClassName(entry.Name)
		if err != nil {
			return nil, loadError(file, fmt.Sprintf("classes[%d]", i), err)
		}
		clazz := classfile.NewProgramClass(className, entry.Super)
		if err := pool.AddClass(clazz); err != nil {
			return nil, loadError(file, fmt.Sprintf("classes[%d]", i), err)
		}
		if entry.Kotlin == nil {
			continue
		}

		b := &unitBuilder{parser: l.parser, file: file}
		unit := b.classMetadata(clazz, entry.Kotlin)
		if b.err != nil {
			return nil, b.err
		}
		units = append(units, unit)
	}
	return units, nil
}

// unitBuilder converts manifest entries into metadata nodes and keeps the first error
type unitBuilder struct {
	parser *Parser
	file   string
	err    error
}

func (b *unitBuilder) classMetadata(clazz classfile.Clazz, entry *KotlinEntry) *kotlin.ClassMetadata {
	metadata := &kotlin.ClassMetadata{
		Clazz:       clazz,
		Annotations: b.annotations(entry.Annotations),
	}
	for _, param := range entry.TypeParameters {
		metadata.TypeParameters = append(metadata.TypeParameters, b.typeParameter(param))
	}
	for _, superType := range entry.SuperTypes {
		metadata.SuperTypes = append(metadata.SuperTypes, b.typ(superType))
	}
	for _, alias := range entry.TypeAliases {
		metadata.TypeAliases = append(metadata.TypeAliases, b.typeAlias(alias))
	}
	return metadata
}

func (b *unitBuilder) annotations(literals []string) []*kotlin.Annotation {
	annotations := make([]*kotlin.Annotation, 0, len(literals))
	for _, literal := range literals {
		if b.err != nil {
			return nil
		}
		annotation, err := b.parser.Parse(b.file, literal)
		if err != nil {
			b.err = err
			return nil
		}
		annotations = append(annotations, annotation)
	}
	return annotations
}

func (b *unitBuilder) typ(entry TypeEntry) *kotlin.TypeMetadata {
	name, err := classfile.NewClassName(entry.Class)
	if err != nil && b.err == nil {
		b.err = loadError(b.file, "type", err)
	}
	typ := &kotlin.TypeMetadata{
		ClassName:   name,
		Nullable:    entry.Nullable,
		Annotations: b.annotations(entry.Annotations),
	}
	for _, argument := range entry.Arguments {
		typ.Arguments = append(typ.Arguments, b.typ(argument))
	}
	return typ
}

func (b *unitBuilder) typeParameter(entry TypeParameterEntry) *kotlin.TypeParameterMetadata {
	variance, err := kotlin.ParseVariance(entry.Variance)
	if err != nil && b.err == nil {
		b.err = errors.NewInvalidArgumentError("variance", entry.Variance, err.Error()).
			WithLocation(errors.SourceLocation{File: b.file})
	}
	param := &kotlin.TypeParameterMetadata{
		Name:        entry.Name,
		ID:          entry.ID,
		Variance:    variance,
		Annotations: b.annotations(entry.Annotations),
	}
	for _, bound := range entry.UpperBounds {
		param.UpperBounds = append(param.UpperBounds, b.typ(bound))
	}
	return param
}

func (b *unitBuilder) typeAlias(entry TypeAliasEntry) *kotlin.TypeAliasMetadata {
	alias := &kotlin.TypeAliasMetadata{
		Name:        entry.Name,
		Annotations: b.annotations(entry.Annotations),
	}
	for _, param := range entry.TypeParameters {
		alias.TypeParameters = append(alias.TypeParameters, b.typeParameter(param))
	}
	if entry.Underlying != nil {
		alias.Underlying = b.typ(*entry.Underlying)
	}
	if entry.Expanded != nil {
		alias.Expanded = b.typ(*entry.Expanded)
	}
	return alias
}
