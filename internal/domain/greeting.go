package domain

import (
	"fmt"
	"time"
)

// GreetingTask is the payload emitted on TopicProcessGreeting.
type GreetingTask struct {
	Timestamp      time.Time `json:"timestamp"`
	AppName        string    `json:"appName"`
	GreetingPrefix string    `json:"greetingPrefix"`
	RequestID      string    `json:"requestId"`
}

// Greeting renders the greeting line for the task.
func (t *GreetingTask) Greeting() string {
	return fmt.Sprintf("%s, %s!", t.GreetingPrefix, t.AppName)
}

// GreetingRecord is what gets stored under NamespaceGreetings once a greeting
// has been processed.
type GreetingRecord struct {
	Greeting    string    `json:"greeting"`
	AppName     string    `json:"appName"`
	RequestedAt time.Time `json:"requestedAt"`
	ProcessedAt time.Time `json:"processedAt"`
}
