// Package dedup counts structurally equal annotations across Kotlin metadata.
package dedup

import (
	"sort"

	"github.com/PranavPurwar/proguard-core/internal/classfile"
	"github.com/PranavPurwar/proguard-core/internal/descriptor"
	"github.com/PranavPurwar/proguard-core/internal/kotlin"
)

// Entry groups every occurrence of one distinct annotation
type Entry struct {
	Canonical *kotlin.Annotation
	Count     int
	Kinds     map[kotlin.ContainerKind]int
}

// Collector is an AnnotationVisitor that buckets annotations by Hash and confirms with Equal.
// Every visited annotation gets the canonical instance of its group as processing info.
// A Collector is not safe for concurrent use.
type Collector struct {
	buckets map[uint64][]*Entry
	entries []*Entry
	total   int
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{buckets: make(map[uint64][]*Entry)}
}

func (c *Collector) VisitAnyAnnotation(_ classfile.Clazz, _ kotlin.Annotatable, annotation *kotlin.Annotation) {
	c.add(kotlin.AnyContainer, annotation)
}

func (c *Collector) VisitTypeAnnotation(_ classfile.Clazz, _ *kotlin.TypeMetadata, annotation *kotlin.Annotation) {
	c.add(kotlin.TypeContainer, annotation)
}

func (c *Collector) VisitTypeAliasAnnotation(_ classfile.Clazz, _ *kotlin.TypeAliasMetadata, annotation *kotlin.Annotation) {
	c.add(kotlin.TypeAliasContainer, annotation)
}

func (c *Collector) VisitTypeParameterAnnotation(_ classfile.Clazz, _ *kotlin.TypeParameterMetadata, annotation *kotlin.Annotation) {
	c.add(kotlin.TypeParameterContainer, annotation)
}

func (c *Collector) add(kind kotlin.ContainerKind, annotation *kotlin.Annotation) {
	c.total++
	hash := annotation.Hash()
	for _, entry := range c.buckets[hash] {
		if entry.Canonical.Equal(annotation) {
			entry.Count++
			entry.Kinds[kind]++
			annotation.SetProcessingInfo(entry.Canonical)
			return
		}
	}

	entry := &Entry{
		Canonical: annotation,
		Count:     1,
		Kinds:     map[kotlin.ContainerKind]int{kind: 1},
	}
	c.buckets[hash] = append(c.buckets[hash], entry)
	c.entries = append(c.entries, entry)
	annotation.SetProcessingInfo(annotation)
}

// Canonical returns the representative the collector assigned to annotation, or nil
func Canonical(annotation *kotlin.Annotation) *kotlin.Annotation {
	canonical, _ := annotation.ProcessingInfo().(*kotlin.Annotation)
	return canonical
}

// Total returns the number of visited annotations
func (c *Collector) Total() int {
	return c.total
}

// Distinct returns the number of distinct annotations
func (c *Collector) Distinct() int {
	return len(c.entries)
}

// Entries returns the groups in first-seen order
func (c *Collector) Entries() []*Entry {
	return c.entries
}

// Report summarises a collector run
type Report struct {
	Total    int           `msgpack:"total"`
	Distinct int           `msgpack:"distinct"`
	Entries  []ReportEntry `msgpack:"entries"`
}

// ReportEntry is one distinct annotation in a Report
type ReportEntry struct {
	Literal   string         `msgpack:"literal"`
	Display   string         `msgpack:"display"`
	ClassName string         `msgpack:"class_name"`
	Resolved  bool           `msgpack:"resolved"`
	Count     int            `msgpack:"count"`
	Kinds     map[string]int `msgpack:"kinds"`
}

// Annotation parses the entry's literal back into an annotation
func (e ReportEntry) Annotation() (*kotlin.Annotation, error) {
	return descriptor.ParseAnnotation(e.Literal)
}

// Report returns the groups ordered by count, most frequent first, then by display form
func (c *Collector) Report() Report {
	report := Report{
		Total:    c.total,
		Distinct: len(c.entries),
		Entries:  make([]ReportEntry, 0, len(c.entries)),
	}
	for _, entry := range c.entries {
		kinds := make(map[string]int, len(entry.Kinds))
		for kind, count := range entry.Kinds {
			kinds[kind.String()] = count
		}
		report.Entries = append(report.Entries, ReportEntry{
			Literal:   descriptor.Format(entry.Canonical),
			Display:   entry.Canonical.String(),
			ClassName: entry.Canonical.ClassName().Internal(),
			Resolved:  entry.Canonical.ReferencedClass() != nil,
			Count:     entry.Count,
			Kinds:     kinds,
		})
	}
	sort.SliceStable(report.Entries, func(i, j int) bool {
		a, b := report.Entries[i], report.Entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Display < b.Display
	})
	return report
}

// Top returns at most n entries; n <= 0 returns all of them
func (r Report) Top(n int) []ReportEntry {
	if n <= 0 || n >= len(r.Entries) {
		return r.Entries
	}
	return r.Entries[:n]
}
