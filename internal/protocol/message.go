package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/catalog"
)

// MessageType identifies a feed message.
type MessageType string

const (
	TypeHello   MessageType = "hello"
	TypeCatalog MessageType = "catalog"
	TypeError   MessageType = "error"
)

// Message is one feed frame.
type Message struct {
	Type    MessageType       `json:"type"`
	Session string            `json:"session,omitempty"`
	Seq     uint64            `json:"seq,omitempty"`
	Server  string            `json:"server,omitempty"`
	Time    time.Time         `json:"time,omitzero"`
	Catalog *catalog.Document `json:"catalog,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ErrNoCatalog is returned by CatalogValue for messages without a catalog.
var ErrNoCatalog = errors.New("protocol: message carries no catalog")

// NewHello builds the greeting sent when a feed session opens.
func NewHello(session, serverVersion string) Message {
	return Message{
		Type:    TypeHello,
		Session: session,
		Server:  serverVersion,
		Time:    time.Now().UTC(),
	}
}

// NewCatalog builds a catalog snapshot message.
func NewCatalog(session string, seq uint64, c *catalog.Catalog) Message {
	doc := c.Document()
	return Message{
		Type:    TypeCatalog,
		Session: session,
		Seq:     seq,
		Catalog: &doc,
	}
}

// NewError builds an error notice.
func NewError(session string, err error) Message {
	return Message{
		Type:    TypeError,
		Session: session,
		Error:   err.Error(),
	}
}

// Encode marshals a message to a JSON frame payload.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", m.Type, err)
	}
	return data, nil
}

// Decode parses a frame payload. Unknown message types are rejected.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("malformed feed message: %w", err)
	}
	switch m.Type {
	case TypeHello, TypeCatalog, TypeError:
		return m, nil
	case "":
		return Message{}, errors.New("feed message has no type")
	default:
		return Message{}, fmt.Errorf("unknown feed message type %q", m.Type)
	}
}

// CatalogValue validates and returns the catalog carried by a catalog
// message.
func (m Message) CatalogValue() (*catalog.Catalog, error) {
	if m.Catalog == nil {
		return nil, ErrNoCatalog
	}
	return catalog.FromDocument(*m.Catalog)
}

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Scripts int    `json:"scripts"`
}

// ScriptList is the body of GET /api/scripts.
type ScriptList struct {
	Scripts []card.Props `json:"scripts"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}
