// Package notify delivers user-visible notifications.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// SubmitFailedMessage is shown when a submission cannot be completed
const SubmitFailedMessage = "Error submitting URLs"

// Notifier shows a blocking message to the user
type Notifier interface {
	Notify(message string)
}

// Writer prints notifications to an io.Writer, one per line
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer over w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify writes message to the underlying writer
func (n *Writer) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "! %s\n", message)
}

// Recorder keeps notifications in memory
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify records message
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
