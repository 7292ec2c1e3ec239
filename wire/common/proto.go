package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is the sample payload the serializers are compared with.
// Which fields are used depends on the kind of message.
type Message struct {
	// Kind of message
	Kind MessageKind `json:"kind"`

	// General fields
	Key      string `json:"key,omitempty"`      // Used for: Put, Get, Delete, Watch
	Seq      uint64 `json:"seq,omitempty"`      // Sequence number assigned by the sender
	Deadline int64  `json:"deadline,omitempty"` // Unix milliseconds, 0 if there is none
	Payload  []byte `json:"payload,omitempty"`  // Used for: Put (request), Get (response). nil and empty differ

	// Response only fields
	Ok  bool   `json:"ok,omitempty"`  // Used for: Get, Delete responses
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message

	// Meta information
	Tags []string `json:"tags,omitempty"` // Free form labels
	Meta []byte   `json:"meta,omitempty"` // Opaque, nil and empty differ
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewPutRequest creates a new Put request
func NewPutRequest(key string, payload []byte, tags ...string) *Message {
	return &Message{
		Kind:    MsgKPut,
		Key:     key,
		Payload: payload,
		Tags:    tags,
	}
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		Kind: MsgKGet,
		Key:  key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(payload []byte, ok bool, err error) *Message {
	msg := &Message{
		Kind:    MsgKGet,
		Ok:      ok,
		Payload: payload,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		Kind: MsgKDelete,
		Key:  key,
	}
}

// NewWatchRequest creates a new Watch request that expires at deadline (unix milliseconds)
func NewWatchRequest(key string, deadline int64) *Message {
	return &Message{
		Kind:     MsgKWatch,
		Key:      key,
		Deadline: deadline,
	}
}

// NewCustomRequest creates a new Custom request
func NewCustomRequest(meta []byte) *Message {
	return &Message{
		Kind: MsgKCustom,
		Meta: meta,
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		Kind: MsgKError,
		Err:  err,
	}
}

// --------------------------------------------------------------------------
// Message Kind Definition
// --------------------------------------------------------------------------

// MessageKind defines the kind of a message
type MessageKind uint8

var kindNames = []string{
	MsgKUnknown: "unknown",
	MsgKSuccess: "success",
	MsgKError:   "error",
	MsgKPut:     "put",
	MsgKGet:     "get",
	MsgKDelete:  "delete",
	MsgKWatch:   "watch",
	MsgKCustom:  "custom",
}

// String returns the string representation of a MessageKind.
func (k MessageKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalJSON implements the json.Marshaler interface for MessageKind.
// This allows MessageKind to be serialized as a string in JSON.
func (k MessageKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageKind.
func (k *MessageKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, name := range kindNames {
		if name == s {
			*k = MessageKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown message kind: %s", s)
}

// --------------------------------------------------------------------------
// Message Kind Constants
// --------------------------------------------------------------------------

const (
	// General message kinds

	MsgKUnknown MessageKind = iota
	MsgKSuccess             // Indicates a successful operation
	MsgKError               // Indicates an error occurred

	// Key operations

	MsgKPut    // Store a payload under a key
	MsgKGet    // Get a payload by key
	MsgKDelete // Delete a key
	MsgKWatch  // Watch a key until a deadline

	// Custom operations

	MsgKCustom // Custom operation kind

	// MsgKCount is the number of message kinds
	MsgKCount = iota
)
