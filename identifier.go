// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package depnav

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Identifier names a resolved package: package-manager type, namespace,
// name, and version. It is a value type, comparable, and usable as a map
// key. The canonical string form is "type:namespace:name:version".
type Identifier struct {
	// Type is the package-manager identity, e.g. "Maven" or "NPM".
	Type string

	// Namespace is the manager-specific grouping, e.g. a Maven groupId.
	// May be empty for managers without namespaces.
	Namespace string

	// Name is the package name.
	Name string

	// Version is the resolved version.
	Version string
}

// NewIdentifier creates an Identifier from its four coordinates.
func NewIdentifier(pkgType, namespace, name, version string) Identifier {
	return Identifier{Type: pkgType, Namespace: namespace, Name: name, Version: version}
}

// ParseIdentifier parses the canonical "type:namespace:name:version" form.
// Missing trailing coordinates are left empty, so "Maven:org:lib" parses
// with an empty version.
func ParseIdentifier(coordinates string) Identifier {
	parts := strings.SplitN(coordinates, ":", 4)
	var id Identifier
	switch len(parts) {
	case 4:
		id.Version = parts[3]
		fallthrough
	case 3:
		id.Name = parts[2]
		fallthrough
	case 2:
		id.Namespace = parts[1]
		fallthrough
	case 1:
		id.Type = parts[0]
	}
	return id
}

// String returns the canonical coordinate form "type:namespace:name:version".
func (id Identifier) String() string {
	return id.Type + ":" + id.Namespace + ":" + id.Name + ":" + id.Version
}

// Compare defines a total lexicographic order over (Type, Namespace, Name,
// Version). It returns a negative value if id sorts before other, zero if
// equal, and a positive value otherwise.
func (id Identifier) Compare(other Identifier) int {
	if c := strings.Compare(id.Type, other.Type); c != 0 {
		return c
	}
	if c := strings.Compare(id.Namespace, other.Namespace); c != 0 {
		return c
	}
	if c := strings.Compare(id.Name, other.Name); c != 0 {
		return c
	}
	return strings.Compare(id.Version, other.Version)
}

// Less reports whether id sorts before other in the total order.
func (id Identifier) Less(other Identifier) bool {
	return id.Compare(other) < 0
}

// IsEmpty reports whether all coordinates are empty.
func (id Identifier) IsEmpty() bool {
	return id == Identifier{}
}

// MarshalText implements encoding.TextMarshaler using the coordinate form.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(text []byte) error {
	*id = ParseIdentifier(string(text))
	return nil
}

// MarshalYAML serializes the identifier as its coordinate string.
func (id Identifier) MarshalYAML() (any, error) {
	return id.String(), nil
}

// UnmarshalYAML deserializes the identifier from its coordinate string.
func (id *Identifier) UnmarshalYAML(value *yaml.Node) error {
	var coordinates string
	if err := value.Decode(&coordinates); err != nil {
		return fmt.Errorf("identifier must be a coordinate string: %w", err)
	}
	*id = ParseIdentifier(coordinates)
	return nil
}

// IdentifierSet is a set of package identifiers.
type IdentifierSet map[Identifier]struct{}

// NewIdentifierSet creates a set containing the given identifiers.
func NewIdentifierSet(ids ...Identifier) IdentifierSet {
	s := make(IdentifierSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set.
func (s IdentifierSet) Add(id Identifier) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s IdentifierSet) Contains(id Identifier) bool {
	_, ok := s[id]
	return ok
}

// Union adds every identifier from other into s.
func (s IdentifierSet) Union(other IdentifierSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy of the set.
func (s IdentifierSet) Clone() IdentifierSet {
	clone := make(IdentifierSet, len(s))
	clone.Union(s)
	return clone
}

// Sorted returns the set's identifiers in their total order.
func (s IdentifierSet) Sorted() []Identifier {
	ids := make([]Identifier, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
