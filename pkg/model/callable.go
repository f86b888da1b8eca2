package model

import (
	"fmt"
	"strings"
)

const (
	pathSep      = "/"
	nameSep      = "//"
	dotSep       = "."
	paramsOpen   = "("
	paramsClose  = ")"
	minDotFields = 3
)

// Callable is the parsed form of a descriptor "<id>/<version>//<name>".
type Callable struct {
	ID      string
	Version string
	Name    string
}

// ParseCallable splits a callable descriptor into id, version and name.
func ParseCallable(descriptor string) (Callable, error) {
	head, name, found := strings.Cut(descriptor, nameSep)
	if !found {
		return Callable{}, fmt.Errorf("%w: %q has no %q", ErrMalformedCallable, descriptor, nameSep)
	}

	id, version, found := strings.Cut(head, pathSep)
	if !found || version == "" {
		return Callable{}, fmt.Errorf("%w: %q has no version", ErrMalformedCallable, descriptor)
	}

	// "id/1.0/extra//name" keeps only the first path segment as version.
	version, _, _ = strings.Cut(version, pathSep)

	if name == "" {
		return Callable{}, fmt.Errorf("%w: %q has no name", ErrMalformedCallable, descriptor)
	}

	return Callable{ID: id, Version: version, Name: name}, nil
}

// CallableID returns the id segment of a descriptor without validating the rest.
func CallableID(descriptor string) string {
	id, _, _ := strings.Cut(descriptor, pathSep)

	return id
}

// Signature is a method name broken into the fields compared by the
// duplicate-name reconciliation.
type Signature struct {
	Module     string
	Class      string
	Method     string
	ReturnType string
	Parameters string
}

// ParseSignature parses "<module>/<Class>.<method>(<returnType>)<parameters>".
// Without a "/" the first dot-separated segment is taken as the module.
func ParseSignature(name string) (Signature, error) {
	qualified, tail, found := strings.Cut(strings.TrimPrefix(name, pathSep), paramsOpen)
	if !found {
		return Signature{}, fmt.Errorf("%w: %q has no parameter list", ErrMalformedCallable, name)
	}

	returnType, parameters, found := strings.Cut(tail, paramsClose)
	if !found {
		return Signature{}, fmt.Errorf("%w: %q has an unterminated parameter list", ErrMalformedCallable, name)
	}

	var module, member string

	if idx := strings.LastIndex(qualified, pathSep); idx >= 0 {
		module, member = qualified[:idx], qualified[idx+1:]
	} else {
		fields := strings.Split(qualified, dotSep)
		if len(fields) < minDotFields {
			return Signature{}, fmt.Errorf("%w: %q has no module", ErrMalformedCallable, name)
		}

		module, member = fields[0], strings.Join(fields[1:], dotSep)
	}

	class, method, found := strings.Cut(member, dotSep)
	if !found || class == "" || method == "" {
		return Signature{}, fmt.Errorf("%w: %q has no class or method", ErrMalformedCallable, name)
	}

	return Signature{
		Module:     module,
		Class:      class,
		Method:     method,
		ReturnType: returnType,
		Parameters: parameters,
	}, nil
}
