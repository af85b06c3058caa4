package classfile

import (
	"strings"

	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

const (
	internalPackageSeparator = "/"
	externalPackageSeparator = "."
)

// ClassName is a class name in the class file's internal form, e.g. "kotlin/Metadata".
// A ClassName obtained from NewClassName or MustClassName is never empty.
type ClassName struct {
	name string
}

var classNameValidator = utils.NewValidatorChain(
	utils.NotBlank("class name"),
	utils.Custom("class name", "must use '/' as the package separator", func(name string) bool {
		return !strings.ContainsAny(name, ".;[")
	}),
	utils.Custom("class name", "has an empty package segment", func(name string) bool {
		return !strings.HasPrefix(name, "/") && !strings.HasSuffix(name, "/") && !strings.Contains(name, "//")
	}),
)

// NewClassName validates and wraps an internal class name
func NewClassName(internalName string) (ClassName, error) {
	if err := classNameValidator.Validate(internalName); err != nil {
		return ClassName{}, errors.NewInvalidArgumentError("className", internalName, err.Error())
	}
	return ClassName{name: internalName}, nil
}

// MustClassName is like NewClassName but panics on an invalid name
func MustClassName(internalName string) ClassName {
	name, err := NewClassName(internalName)
	if err != nil {
		panic(err)
	}
	return name
}

// IsZero reports whether the name was never initialized
func (n ClassName) IsZero() bool {
	return n.name == ""
}

// Internal returns the slash-separated form
func (n ClassName) Internal() string {
	return n.name
}

// External returns the dotted form used for display
func (n ClassName) External() string {
	return ExternalClassName(n.name)
}

// String returns the internal form
func (n ClassName) String() string {
	return n.name
}

// ExternalClassName converts "a/b/C" into "a.b.C"
func ExternalClassName(internalName string) string {
	return strings.ReplaceAll(internalName, internalPackageSeparator, externalPackageSeparator)
}

// InternalClassName converts "a.b.C" into "a/b/C"
func InternalClassName(externalName string) string {
	return strings.ReplaceAll(externalName, externalPackageSeparator, internalPackageSeparator)
}

// PackageName returns the internal package prefix of a class name, or "" for the default package
func PackageName(internalName string) string {
	if i := strings.LastIndex(internalName, internalPackageSeparator); i >= 0 {
		return internalName[:i]
	}
	return ""
}
