package attributes

import "sort"

// Attributes is the set of stats owned by one character.
type Attributes map[string]*Attribute

// Add stores attr under its name, replacing any attribute of the same name.
func (a Attributes) Add(attr *Attribute) {
	a[attr.Name] = attr
}

// Get returns the named attribute.
func (a Attributes) Get(name string) (*Attribute, bool) {
	attr, ok := a[name]
	return attr, ok
}

// Has reports whether the named attribute exists.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Names returns attribute names sorted alphabetically.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearDeltas restores every attribute to full.
func (a Attributes) ClearDeltas() {
	for _, attr := range a {
		attr.SetDelta(0)
	}
}

// Serialize returns the persisted state of every attribute.
func (a Attributes) Serialize() map[string]Data {
	out := make(map[string]Data, len(a))
	for name, attr := range a {
		out[name] = attr.Serialize()
	}
	return out
}
