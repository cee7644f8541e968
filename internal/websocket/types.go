// internal/websocket/types.go
package websocket

// RPCRequest is a method call from a connected shell.
type RPCRequest struct {
	ID     string        `json:"id"`     // matches the response to the request
	Method string        `json:"method"` // bound App method, e.g. "OpenDocument"
	Params []interface{} `json:"params"`
}

// RPCResponse answers one RPCRequest.
type RPCResponse struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// WSEvent is a backend-initiated push, e.g. "document:changed".
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSMessage is the envelope for everything on the wire.
type WSMessage struct {
	// "rpc_request", "rpc_response", or "event"
	Kind string `json:"kind"`

	Request  *RPCRequest  `json:"request,omitempty"`
	Response *RPCResponse `json:"response,omitempty"`
	Event    *WSEvent     `json:"event,omitempty"`
}
