package domain

import "github.com/phrazzld/courier/internal/events"

// Topics shared by every emitter and subscriber. Binding the payload type here
// means a mismatched Emit or Subscribe call does not compile.
var (
	TopicUsernameRequested = events.NewTopic[UsernameTask]("username.requested")
	TopicUsernameGenerated = events.NewTopic[UsernameResult]("username.generated")
	TopicProcessGreeting   = events.NewTopic[GreetingTask]("process-greeting")
)

// State store namespaces for stored records.
const (
	NamespaceUsernames = "usernames"
	NamespaceGreetings = "greetings"
)
