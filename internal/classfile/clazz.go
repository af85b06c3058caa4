package classfile

// Processable carries scratch state that analysis passes attach to model objects.
// It never takes part in equality or hashing.
type Processable struct {
	processingFlags int
	processingInfo  interface{}
}

// ProcessingFlags returns the flags set by earlier passes
func (p *Processable) ProcessingFlags() int {
	return p.processingFlags
}

// SetProcessingFlags replaces the processing flags
func (p *Processable) SetProcessingFlags(flags int) {
	p.processingFlags = flags
}

// ProcessingInfo returns the value set by earlier passes
func (p *Processable) ProcessingInfo() interface{} {
	return p.processingInfo
}

// SetProcessingInfo replaces the processing info
func (p *Processable) SetProcessingInfo(info interface{}) {
	p.processingInfo = info
}

// Clazz is a class entity living in a ClassPool
type Clazz interface {
	Name() ClassName
	Accept(visitor ClassVisitor)
	ProcessingInfo() interface{}
	SetProcessingInfo(info interface{})
}

// ClassVisitor receives classes by their concrete kind
type ClassVisitor interface {
	VisitProgramClass(clazz *ProgramClass)
	VisitLibraryClass(clazz *LibraryClass)
}

// ClassVisitorFunc adapts a function to a ClassVisitor that treats all kinds alike
type ClassVisitorFunc func(clazz Clazz)

func (f ClassVisitorFunc) VisitProgramClass(clazz *ProgramClass) { f(clazz) }
func (f ClassVisitorFunc) VisitLibraryClass(clazz *LibraryClass) { f(clazz) }

// ProgramClass is a class that belongs to the analyzed input
type ProgramClass struct {
	Processable
	ClassName ClassName
	SuperName string // internal name, empty for java/lang/Object
}

// NewProgramClass creates a program class
func NewProgramClass(name ClassName, superName string) *ProgramClass {
	return &ProgramClass{ClassName: name, SuperName: superName}
}

func (c *ProgramClass) Name() ClassName { return c.ClassName }

// Accept calls VisitProgramClass
func (c *ProgramClass) Accept(visitor ClassVisitor) {
	visitor.VisitProgramClass(c)
}

func (c *ProgramClass) String() string {
	return c.ClassName.External()
}

// LibraryClass is a class known only by name, e.g. from the Kotlin stdlib
type LibraryClass struct {
	Processable
	ClassName ClassName
}

// NewLibraryClass creates a library class
func NewLibraryClass(name ClassName) *LibraryClass {
	return &LibraryClass{ClassName: name}
}

func (c *LibraryClass) Name() ClassName { return c.ClassName }

// Accept calls VisitLibraryClass
func (c *LibraryClass) Accept(visitor ClassVisitor) {
	visitor.VisitLibraryClass(c)
}

func (c *LibraryClass) String() string {
	return c.ClassName.External()
}
