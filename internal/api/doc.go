// Package api is the HTTP surface of the service. Handlers decode and
// validate requests into domain types, call the services and translate
// their errors into JSON responses. Accepting a request never waits for
// its result: callers poll /api/requests/{id} or watch it over a websocket.
package api
