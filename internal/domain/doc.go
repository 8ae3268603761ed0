// Package domain contains the request, task and result types that flow
// through the service, the topics that carry them, and the validation rules
// applied to them at the boundary. It has no knowledge of HTTP, the event bus
// implementation, or the storage backend.
package domain
