package dedup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// ErrUnknownCategory is returned by ParseCategory for an unrecognized name.
var ErrUnknownCategory = errors.New("unknown duplicate category")

// Category names the signature field that may differ between a removed
// callable and its replacement.
type Category int

// Categories in the order Reconcile applies them.
const (
	CategoryModule Category = iota
	CategoryClass
	CategoryMethod
	CategoryParams
	CategoryReturn
)

var categoryNames = [...]string{
	CategoryModule: "module",
	CategoryClass:  "class",
	CategoryMethod: "method",
	CategoryParams: "params",
	CategoryReturn: "return",
}

// AllCategories returns every category in reconciliation order.
func AllCategories() []Category {
	return []Category{CategoryModule, CategoryClass, CategoryMethod, CategoryParams, CategoryReturn}
}

// String returns the lowercase category name.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}

	return categoryNames[c]
}

// ParseCategory resolves a category by name, case-insensitively.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Category(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Key is the duplicate-equality signature of a callable. The field excluded
// by the active category is always empty.
type Key struct {
	Module     string
	Class      string
	Method     string
	ReturnType string
	Parameters string
}

// String renders the key as a tuple for diagnostics.
func (k Key) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s, %s)", k.Module, k.Class, k.Method, k.ReturnType, k.Parameters)
}

type keyFunc func(model.Signature) Key

// keyFunc returns the key extractor for c. It is resolved once per pass.
func (c Category) keyFunc() (keyFunc, error) {
	switch c {
	case CategoryModule:
		return func(s model.Signature) Key {
			return Key{Class: s.Class, Method: s.Method, ReturnType: s.ReturnType, Parameters: s.Parameters}
		}, nil
	case CategoryClass:
		return func(s model.Signature) Key {
			return Key{Module: s.Module, Method: s.Method, ReturnType: s.ReturnType, Parameters: s.Parameters}
		}, nil
	case CategoryMethod:
		return func(s model.Signature) Key {
			return Key{Module: s.Module, Class: s.Class, ReturnType: s.ReturnType, Parameters: s.Parameters}
		}, nil
	case CategoryParams:
		return func(s model.Signature) Key {
			return Key{Module: s.Module, Class: s.Class, Method: s.Method, ReturnType: s.ReturnType}
		}, nil
	case CategoryReturn:
		return func(s model.Signature) Key {
			return Key{Module: s.Module, Class: s.Class, Method: s.Method, Parameters: s.Parameters}
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
}
