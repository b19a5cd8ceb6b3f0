// Package protocol defines the JSON messages exchanged between a library
// server and its clients: REST response bodies and the WebSocket feed.
//
// # Feed Messages
//
// Every feed message is a single JSON text frame with a "type" field:
//
//	{"type":"hello","session":"0b6f…","server":"v1.2.0","time":"…"}
//	{"type":"catalog","session":"0b6f…","seq":1,"catalog":{"version":1,"scripts":[…]}}
//	{"type":"error","session":"0b6f…","error":"catalog: malformed catalog document"}
//
// A server sends hello followed by the current catalog on connect, and a new
// catalog message after every successful reload. Sequence numbers increase
// by one per catalog message within a session.
//
// # Usage Example
//
//	msg, err := protocol.Decode(data)
//	if err != nil {
//	    return err
//	}
//	if msg.Type == protocol.TypeCatalog {
//	    cat, err := msg.CatalogValue()
//	    ...
//	}
package protocol
