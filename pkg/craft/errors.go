package craft

import "fmt"

// MalformedValueError reports an attribute value that failed its typed
// coercion. The underlying strconv error is preserved for unwrapping.
type MalformedValueError struct {
	Entity string
	Key    string
	Value  string
	Err    error
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("%s: cannot parse %s = %q: %v", e.Entity, e.Key, e.Value, e.Err)
}

func (e *MalformedValueError) Unwrap() error {
	return e.Err
}

// MissingModuleError reports a part definition that never declared which
// module variant it instantiates.
type MissingModuleError struct {
	Input string
}

func (e *MissingModuleError) Error() string {
	return fmt.Sprintf("part definition %q: no module key", e.Input)
}

// UnknownPartModuleError reports a module key naming a variant that is not
// registered in the closed module set.
type UnknownPartModuleError struct {
	Input  string
	Module string
}

func (e *UnknownPartModuleError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("unknown part module %q", e.Module)
	}
	return fmt.Sprintf("part definition %q: unknown part module %q", e.Input, e.Module)
}

// UnknownPartTypeError reports a ship part whose catalog name matches no
// loaded part definition.
type UnknownPartTypeError struct {
	Ship   string
	PartID string
	Name   string
}

func (e *UnknownPartTypeError) Error() string {
	return fmt.Sprintf("ship %q: part %q references unknown part type %q", e.Ship, e.PartID, e.Name)
}

// DanglingReferenceError reports a deferred part reference that matched no
// part id after the whole assembly was read.
type DanglingReferenceError struct {
	Ship   string
	PartID string
	Field  string
	Ref    string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("ship %q: part %q %s reference %q matches no part", e.Ship, e.PartID, e.Field, e.Ref)
}
