// Package intake holds the session lifecycle of the service-request form:
// persistence, the HTTP API and the websocket answer channel.
package intake

import (
	"time"

	"github.com/iesm-tools/intake/internal/directory"
	"github.com/iesm-tools/intake/internal/form"
)

// Session is one intake interaction: an optional verified identity plus the
// accumulating form answers. The answer document is the serializable state
// of the form machine; the machine itself is rebuilt per interaction from
// freshly fetched (cached) directory data.
type Session struct {
	ID        string              `json:"id"`
	Identity  *directory.Identity `json:"identity,omitempty"`
	Answer    form.Answer         `json:"answer"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
