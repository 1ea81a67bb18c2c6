// Package mock defines the mock response configuration types shared
// across the mockhive codebase.
package mock

import "time"

// Endpoint groups the responses configured for one logical endpoint.
// Status and Delay are the endpoint-level defaults applied to responses
// that do not carry their own.
type Endpoint struct {
	Path      string      `json:"path"`
	Method    string      `json:"method,omitempty"`
	Status    int         `json:"status,omitempty"`
	Delay     int64       `json:"delay,omitempty"`
	Responses []*Response `json:"responses"`
}

// Set is a named collection of endpoint definitions, as parsed from a
// definition file or loaded back from the registry.
type Set struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Version   int        `json:"version"`
	Endpoints []Endpoint `json:"endpoints"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ResponseCount returns the total number of responses across all
// endpoints in the set.
func (s *Set) ResponseCount() int {
	n := 0
	for _, ep := range s.Endpoints {
		n += len(ep.Responses)
	}
	return n
}
