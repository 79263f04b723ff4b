package nexus

import (
	"fmt"

	"github.com/scigolib/nexus/fileservice"
)

// Attributes is the string-valued metadata of one object.
//
// Names and Values enumerate in the order the file reported them. A missing
// name is not an error: Get returns "". Set changes the in-memory copy only.
type Attributes struct {
	names  []string
	values map[string]string
}

func newAttributes(list []fileservice.Attribute) *Attributes {
	a := &Attributes{values: make(map[string]string, len(list))}
	for _, attr := range list {
		a.Set(attr.Name, attr.Value)
	}
	return a
}

// Get returns the value of name, or "" if there is no such attribute.
func (a *Attributes) Get(name string) string {
	return a.values[name]
}

// Has reports whether name is present.
func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return len(a.names)
}

// Names returns the attribute names.
func (a *Attributes) Names() []string {
	return append([]string(nil), a.names...)
}

// Values returns the attribute values, index-aligned with Names.
func (a *Attributes) Values() []string {
	values := make([]string, len(a.names))
	for i, name := range a.names {
		values[i] = a.values[name]
	}
	return values
}

// Set adds or replaces an attribute.
func (a *Attributes) Set(name, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

// SetValue stores v formatted with fmt's default verb.
func SetValue[V any](a *Attributes, name string, v V) {
	a.Set(name, fmt.Sprint(v))
}
