package events

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var registry = struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}{types: make(map[string]reflect.Type)}

// Register binds a topic name to its payload type. Registering the same name
// with the same type is a no-op; a different type panics, since two parts of
// the program would disagree on the shape of the topic.
func Register(name string, typ reflect.Type) {
	if name == "" {
		panic("events: topic name cannot be empty")
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if existing, ok := registry.types[name]; ok {
		if existing != typ {
			panic(fmt.Sprintf("events: topic %q already registered with payload %s, not %s",
				name, existing, typ))
		}
		return
	}
	registry.types[name] = typ
}

// PayloadType returns the payload type registered for a topic.
func PayloadType(name string) (reflect.Type, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	typ, ok := registry.types[name]
	return typ, ok
}

// Registered lists every registered topic name in sorted order.
func Registered() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.types))
	for name := range registry.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
