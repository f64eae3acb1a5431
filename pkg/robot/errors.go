package robot

import "fmt"

// DocumentError reports a results document that could not be opened or is not
// well-formed XML. It is fatal for the whole discovery call; no partial
// result accompanies it.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("results document: %v", e.Err)
	}
	return fmt.Sprintf("results document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// AttributeTypeError reports an attribute that is present but does not parse
// as the expected type. Absent attributes never produce it; they default.
type AttributeTypeError struct {
	Element string
	Attr    string
	Value   string
}

func (e *AttributeTypeError) Error() string {
	return fmt.Sprintf("element <%s>: attribute %q has invalid value %q", e.Element, e.Attr, e.Value)
}
