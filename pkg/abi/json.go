package abi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parameter is one input or output in a JSON-ABI descriptor. A
// tuple-typed parameter carries its component list in Components rather
// than inline in the type string.
type Parameter struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []Parameter `json:"components,omitempty"`
	Indexed    bool        `json:"indexed,omitempty"`
}

// Entry is a single JSON-ABI descriptor: a function, event, error or
// constructor.
type Entry struct {
	Type            string      `json:"type"`
	Name            string      `json:"name,omitempty"`
	Inputs          []Parameter `json:"inputs"`
	Outputs         []Parameter `json:"outputs,omitempty"`
	StateMutability string      `json:"stateMutability,omitempty"`
	Anonymous       bool        `json:"anonymous,omitempty"`
}

// ParseJSON parses a JSON-ABI document (the array form emitted by solc)
// into entries.
func ParseJSON(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return entries, nil
}

// Descriptor builds the Type for this parameter, merging a separate
// Components list into the tuple base type before re-applying any array
// suffixes. Tuples inside tuples recurse through the same path, so JSON
// parameters and plain type strings share one component-building routine.
func (p Parameter) Descriptor() (Type, error) {
	base, suffix, err := splitArraySuffix(strings.TrimSpace(p.Type))
	if err != nil {
		return Type{}, err
	}

	var t Type
	if base == "tuple" {
		components := make([]Type, len(p.Components))
		for i, c := range p.Components {
			components[i], err = c.Descriptor()
			if err != nil {
				return Type{}, err
			}
		}
		t = Tuple(components...)
	} else {
		if len(p.Components) != 0 {
			return Type{}, fmt.Errorf("%w: components on non-tuple type %q", ErrMalformed, p.Type)
		}
		t, err = ParseType(base)
		if err != nil {
			return Type{}, err
		}
	}
	return applyArraySuffix(t, suffix)
}

// InputTypes builds the descriptors for all inputs, in order.
func (e Entry) InputTypes() ([]Type, error) {
	types := make([]Type, len(e.Inputs))
	for i, p := range e.Inputs {
		t, err := p.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("input %d (%s): %w", i, p.Name, err)
		}
		types[i] = t
	}
	return types, nil
}

// Signature renders the entry's canonical signature, with tuple types
// spelled as parenthesized component lists.
func (e Entry) Signature() (string, error) {
	types, err := e.InputTypes()
	if err != nil {
		return "", err
	}
	return CanonicalSignature(e.Name, types), nil
}

// Selector returns the 4-byte selector of a function or error entry.
func (e Entry) Selector() ([4]byte, error) {
	sig, err := e.Signature()
	if err != nil {
		return [4]byte{}, err
	}
	return Selector(sig)
}

// Topic returns the 32-byte topic hash of an event entry.
func (e Entry) Topic() ([32]byte, error) {
	sig, err := e.Signature()
	if err != nil {
		return [32]byte{}, err
	}
	return EventTopic(sig)
}

// EncodeCall encodes a call to this entry: selector followed by the
// ABI-encoded arguments.
func (e Entry) EncodeCall(values []any) ([]byte, error) {
	types, err := e.InputTypes()
	if err != nil {
		return nil, err
	}
	selector, err := e.Selector()
	if err != nil {
		return nil, err
	}
	args, err := Encode(types, values)
	if err != nil {
		return nil, err
	}
	return append(selector[:], args...), nil
}

// DecodeCallData decodes call data produced by EncodeCall, verifying the
// selector matches this entry.
func (e Entry) DecodeCallData(data []byte) ([]any, error) {
	if len(data) < 4 {
		return nil, ErrShortData
	}
	selector, err := e.Selector()
	if err != nil {
		return nil, err
	}
	if selector != [4]byte(data[:4]) {
		return nil, fmt.Errorf("%w: selector %x does not match %x", ErrTypeMismatch, data[:4], selector[:])
	}
	types, err := e.InputTypes()
	if err != nil {
		return nil, err
	}
	return Decode(types, data[4:])
}
