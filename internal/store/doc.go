// Package store defines the State Store: a key/value store of JSON documents
// grouped into namespaces. Backends live under internal/platform; an
// in-process implementation lives here.
package store
