package classfile

import (
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// ClassPool holds classes keyed by internal name. It is safe for concurrent use.
type ClassPool struct {
	registry *utils.Registry[string, Clazz]
}

// NewClassPool creates an empty class pool
func NewClassPool() *ClassPool {
	return &ClassPool{registry: utils.NewRegistry("class pool",
		utils.NotEmptyKey[string, Clazz]("class name"),
		utils.NoDuplicate[string, Clazz]("class"),
	)}
}

// AddClass registers a class under its internal name
func (p *ClassPool) AddClass(clazz Clazz) error {
	return p.registry.Register(clazz.Name().Internal(), clazz)
}

// GetClass looks up a class by internal name
func (p *ClassPool) GetClass(internalName string) (Clazz, bool) {
	return p.registry.Get(internalName)
}

// Contains reports whether a class with the given internal name is present
func (p *ClassPool) Contains(internalName string) bool {
	return p.registry.Has(internalName)
}

// Size returns the number of classes in the pool
func (p *ClassPool) Size() int {
	return p.registry.Size()
}

// ClassNames returns the internal names of all classes, sorted
func (p *ClassPool) ClassNames() []string {
	return p.registry.Keys()
}

// Classes returns all classes sorted by internal name
func (p *ClassPool) Classes() []Clazz {
	names := p.ClassNames()
	classes := make([]Clazz, 0, len(names))
	for _, name := range names {
		if clazz, ok := p.registry.Get(name); ok {
			classes = append(classes, clazz)
		}
	}
	return classes
}

// ClassesAccept visits every class in name order
func (p *ClassPool) ClassesAccept(visitor ClassVisitor) {
	for _, clazz := range p.Classes() {
		clazz.Accept(visitor)
	}
}

// ClassAccept visits the named class if the pool contains it
func (p *ClassPool) ClassAccept(internalName string, visitor ClassVisitor) {
	if clazz, ok := p.registry.Get(internalName); ok {
		clazz.Accept(visitor)
	}
}
