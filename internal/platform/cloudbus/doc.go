// Package cloudbus implements events.Dispatcher on gocloud.dev/pubsub, so the
// same code runs against in-memory topics locally and a managed broker in
// production. Topics and subscriptions are addressed by URL.
package cloudbus
