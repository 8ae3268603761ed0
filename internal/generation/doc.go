// Package generation defines the boundary between the username worker and
// the language model that invents usernames. Implementations live under
// internal/platform; this package holds the interface, the shared error
// values and the parsing rules every implementation applies to model output.
package generation
