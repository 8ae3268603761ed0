// Package events provides the types and interfaces for the service's
// event-driven request/result flow.
//
// Components emit events without knowing which handlers consume them, and the
// concrete bus (in-process or a cloud pub/sub broker) lives behind the
// Dispatcher interface.
//
// The primary components are:
// - Event: the envelope carried by every dispatcher
// - Handler: interface for components that consume events
// - Dispatcher: interface for the bus that events are published to
// - Topic: a topic name bound to its payload type, shared by emitters and subscribers
package events
