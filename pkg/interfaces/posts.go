package interfaces

import (
	"context"
	"encoding/json"
)

// PostInput is the payload accepted for post create and update operations.
type PostInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Excerpt    string   `json:"excerpt"`
}

// Relayed is a successful upstream response passed through untouched.
type Relayed struct {
	Status int
	Body   json.RawMessage
}

// PostPublisher forwards post operations to the upstream system of record.
// Successful calls return the upstream status and JSON body so the HTTP
// layer can relay them.
type PostPublisher interface {
	List(ctx context.Context) (*Relayed, error)
	Create(ctx context.Context, input PostInput) (*Relayed, error)
	Update(ctx context.Context, id int, input PostInput) (*Relayed, error)
	Close(ctx context.Context, id int) error
}
