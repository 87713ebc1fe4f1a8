package command

import "fmt"

// CommandResult is the uniform outcome of every routed command. Message is
// rendered to the user verbatim; no raw errors or internal codes cross this
// boundary.
type CommandResult struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	ItemID   string      `json:"itemId,omitempty"`
	Failures []string    `json:"failures,omitempty"`
}

// Failuref builds a failure result with a formatted message.
func Failuref(format string, args ...interface{}) CommandResult {
	return CommandResult{Success: false, Message: fmt.Sprintf(format, args...)}
}
