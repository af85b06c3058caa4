// Package cli runs the load and resolve phases shared by every kmeta command.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/config"
	"github.com/PranavPurwar/proguard-core/internal/dedup"
	"github.com/PranavPurwar/proguard-core/internal/descriptor"
	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
	"github.com/PranavPurwar/proguard-core/internal/resolver"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// Pipeline coordinates configuration, loading and resolution
type Pipeline struct {
	loader      *descriptor.Loader
	diagnostics *utils.DiagnosticSystem
}

// NewPipeline creates a pipeline that reports progress through diagnostics
func NewPipeline(diagnostics *utils.DiagnosticSystem) *Pipeline {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Pipeline{
		loader:      descriptor.NewLoader(),
		diagnostics: diagnostics,
	}
}

// Session is a loaded and resolved program
type Session struct {
	Config  *config.Config
	Program *descriptor.Program
	Stats   resolver.Stats
}

// AnnotationRecord is one annotation together with where it was found
type AnnotationRecord struct {
	Class      classfile.Clazz
	Kind       kotlin.ContainerKind
	Annotation *kotlin.Annotation
}

// Run loads the configuration and every input manifest, then resolves all annotations.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Workers > 0 {
		cfg.Resolve.Workers = opts.Workers
	}
	if cfg.Dir != "" {
		p.diagnostics.Info("using configuration from %s", cfg.Dir)
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = cfg.Patterns()
	}
	if len(patterns) == 0 {
		return nil, errors.NewInvalidArgumentError("patterns", nil, "no input manifests given").
			WithSuggestion("pass manifest paths or globs as arguments").
			WithSuggestion("or set [input].patterns in " + config.FileName)
	}

	p.diagnostics.PhaseHeader("Loading")
	start := time.Now()
	program, err := p.loader.Load(patterns, cfg.Resolve.Library)
	if err != nil {
		return nil, err
	}
	verbose := p.diagnostics.Level() >= utils.DiagnosticVerbose
	p.diagnostics.Indent()
	p.diagnostics.PhaseItem("%d manifests", len(program.Files))
	if verbose {
		p.diagnostics.Indent()
		for _, file := range program.Files {
			p.diagnostics.List("%s", file)
		}
		p.diagnostics.Unindent()
	}
	p.diagnostics.PhaseItem("%d program classes, %d library classes", program.ProgramPool.Size(), program.LibraryPool.Size())
	p.diagnostics.Unindent()
	loadTime := time.Since(start)

	p.diagnostics.PhaseHeader("Resolving")
	initializer := &resolver.Initializer{
		ProgramPool: program.ProgramPool,
		LibraryPool: program.LibraryPool,
		Workers:     cfg.Resolve.Workers,
		Reporter:    p.diagnostics,
	}
	stats, err := initializer.Run(ctx, program.Units)
	if err != nil {
		return nil, err
	}
	p.diagnostics.Indent()
	p.diagnostics.PhaseItem("%d of %d annotations resolved", stats.Resolved, stats.Annotations)
	p.diagnostics.Unindent()
	for _, name := range stats.Missing {
		p.diagnostics.Warn("annotation class %s not found", classfile.ExternalClassName(name))
	}
	if verbose {
		cache := p.loader.CacheStats()
		p.diagnostics.Summary("Statistics", map[string]interface{}{
			"load time":        loadTime.Round(time.Millisecond),
			"manifest cache":   fmt.Sprintf("%d hits, %d misses", cache.Hits, cache.Misses),
			"resolution pass":  stats.PassID,
			"metadata units":   stats.Units,
			"unresolved names": len(stats.Missing),
		})
	}

	return &Session{Config: cfg, Program: program, Stats: stats}, nil
}

// Annotations lists every annotation in traversal order
func (s *Session) Annotations() []AnnotationRecord {
	var records []AnnotationRecord
	visitor := kotlin.KindVisitorFunc(func(kind kotlin.ContainerKind, clazz classfile.Clazz, _ kotlin.Annotatable, annotation *kotlin.Annotation) {
		records = append(records, AnnotationRecord{Class: clazz, Kind: kind, Annotation: annotation})
	})
	for _, unit := range s.Program.Units {
		unit.AllAnnotationsAccept(visitor)
	}
	return records
}

// Collect runs the dedup collector over every unit
func (s *Session) Collect() *dedup.Collector {
	collector := dedup.NewCollector()
	for _, unit := range s.Program.Units {
		unit.AllAnnotationsAccept(collector)
	}
	return collector
}
