// Package models keeps the process-wide registry of known models so
// they can be looked up by name.
package models

import (
	"github.com/calder/facet/internal/registry"
	"github.com/calder/facet/provider"
)

var known = registry.New[provider.Model]()

// Add registers a model under its name, replacing any previous entry.
func Add(m provider.Model) {
	known.Add(m.Name(), m)
}

// Get looks a model up by name.
func Get(name string) (provider.Model, bool) {
	return known.Get(name)
}

// GetOrAdd returns the registered model or installs the one produced by
// fn atomically.
func GetOrAdd(name string, fn func() provider.Model) provider.Model {
	m, _ := known.GetOrAdd(name, fn)
	return m
}
