// Package config loads application settings from defaults, an optional
// courier.yaml file and COURIER_-prefixed environment variables, then
// validates them before any component is wired.
package config
