// Package router provides the navigation port used when a session expires.
package router

import (
	"slices"
	"sync"
)

// Navigator moves the user to another view
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

// NavigateTo calls f(path)
func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Discard ignores every navigation
var Discard Navigator = NavigatorFunc(func(string) {})

// History records navigations in order and optionally forwards them to a listener
type History struct {
	mu       sync.Mutex
	paths    []string
	listener func(path string)
}

// NewHistory returns an empty History; listener may be nil
func NewHistory(listener func(path string)) *History {
	return &History{listener: listener}
}

// NavigateTo appends path and notifies the listener
func (h *History) NavigateTo(path string) {
	h.mu.Lock()
	h.paths = append(h.paths, path)
	listener := h.listener
	h.mu.Unlock()

	if listener != nil {
		listener(path)
	}
}

// Current returns the latest path, empty when nothing was visited
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.paths) == 0 {
		return ""
	}
	return h.paths[len(h.paths)-1]
}

// Paths returns a copy of all visited paths
func (h *History) Paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.paths)
}
