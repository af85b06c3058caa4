// Package resolver links the annotations in Kotlin metadata to the classes they name.
package resolver

import (
	"context"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// Initializer resolves annotation classes against a program pool and a library pool.
// Program classes take precedence over library classes of the same name.
type Initializer struct {
	ProgramPool *classfile.ClassPool
	LibraryPool *classfile.ClassPool
	Workers     int
	Reporter    utils.Reporter
}

// Stats describes one resolution pass
type Stats struct {
	PassID      string
	Units       int
	Annotations int
	Resolved    int
	Unresolved  int
	Missing     []string // sorted, unique internal names that were not found
}

type unitResult struct {
	annotations int
	resolved    int
	missing     []string
	errs        *errors.MultipleErrors
}

// Run resolves every annotation reachable from units, including annotations nested in
// argument values, in a new pass. An annotation instance must not be shared between units.
// Names that cannot be found leave the referenced class nil and are reported in Stats.
// Visiting the same annotation twice within the pass is a Resolution error.
//
// A cancelled ctx stops the pass early. Annotations already visited keep the
// referenced class and pass ID of the abandoned pass until a later Run replaces them.
func (i *Initializer) Run(ctx context.Context, units []*kotlin.ClassMetadata) (Stats, error) {
	reporter := i.Reporter
	if reporter == nil {
		reporter = utils.NopReporter{}
	}
	workers := i.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	passID := uuid.New().String()
	reporter.Verbose("resolution pass %s over %d units with %d workers", passID, len(units), workers)

	results := make([]unitResult, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(workers, len(units))))

	for n, unit := range units {
		n, unit := n, unit
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// Each index is written by exactly one goroutine.
			results[n] = i.resolveUnit(passID, unit, reporter)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{PassID: passID, Units: len(units)}, err
	}

	stats := Stats{PassID: passID, Units: len(units)}
	missing := make(map[string]struct{})
	var problems *errors.MultipleErrors
	for _, result := range results {
		stats.Annotations += result.annotations
		stats.Resolved += result.resolved
		for _, name := range result.missing {
			missing[name] = struct{}{}
		}
		if result.errs != nil {
			for _, err := range result.errs.Errors {
				errors.AddToMultiple(&problems, err)
			}
		}
	}
	stats.Unresolved = stats.Annotations - stats.Resolved
	for name := range missing {
		stats.Missing = append(stats.Missing, name)
	}
	sort.Strings(stats.Missing)

	reporter.Verbose("pass %s resolved %d of %d annotations", passID, stats.Resolved, stats.Annotations)
	return stats, problems.ErrorOrNil()
}

func (i *Initializer) resolveUnit(passID string, unit *kotlin.ClassMetadata, reporter utils.Reporter) unitResult {
	var result unitResult

	var resolve func(annotation *kotlin.Annotation)
	var walk func(value kotlin.ArgumentValue)

	resolve = func(annotation *kotlin.Annotation) {
		clazz := i.lookup(annotation.ClassName().Internal())
		if err := annotation.SetReferencedClass(passID, clazz); err != nil {
			metadataErr, ok := err.(errors.MetadataError)
			if !ok {
				metadataErr = errors.Wrap(errors.ResolutionErrorCode, "resolution failed", err)
			}
			errors.AddToMultiple(&result.errs, metadataErr)
			return
		}
		result.annotations++
		if clazz != nil {
			result.resolved++
		} else {
			result.missing = append(result.missing, annotation.ClassName().Internal())
			reporter.Debug("unresolved annotation class %s in %s", annotation.ClassName().External(), unit)
		}
		for _, argument := range annotation.Arguments {
			if argument != nil {
				walk(argument.Value)
			}
		}
	}

	// Nested annotations resolve their own arguments, so walk stops at them.
	walk = func(value kotlin.ArgumentValue) {
		switch v := value.(type) {
		case kotlin.AnnotationValue:
			if v.Annotation != nil {
				resolve(v.Annotation)
			}
		case kotlin.ArrayValue:
			for _, element := range v.Elements {
				walk(element)
			}
		}
	}

	unit.AllAnnotationsAccept(kotlin.AnnotationVisitorFunc(
		func(_ classfile.Clazz, _ kotlin.Annotatable, annotation *kotlin.Annotation) {
			resolve(annotation)
		}))
	return result
}

func (i *Initializer) lookup(internalName string) classfile.Clazz {
	if i.ProgramPool != nil {
		if clazz, ok := i.ProgramPool.GetClass(internalName); ok {
			return clazz
		}
	}
	if i.LibraryPool != nil {
		if clazz, ok := i.LibraryPool.GetClass(internalName); ok {
			return clazz
		}
	}
	return nil
}
