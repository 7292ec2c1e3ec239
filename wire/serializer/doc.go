// Package serializer provides message serialization for the sample message in
// package common. It defines a common interface and several implementations,
// so the in-arena encoding can be compared with established formats.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Lays the message out as an arena record (see
//     MessageType). Optional byte slices are unions of unit and bytes, so nil and
//     empty survive a round trip. OpenMessage validates the bytes once and
//     returns a MessageView that reads fields in place and updates fixed-size
//     fields without re-encoding.
//
//   - jsonSerializerImpl: JSON encoding, useful for debugging. Empty byte
//     slices come back as nil.
//
//   - gobSerializerImpl: Go's gob encoding. Empty byte slices come back as nil.
//
//   - msgpackSerializerImpl: MessagePack encoding, the compact reference format.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization. A
//	MessageView is not synchronized, like the buffer it points into.
//
// Usage:
//
//	serializer := serializer.NewBinarySerializer()
//	data, err := serializer.Serialize(message)
//	// ... later, without copying:
//	view, err := serializer.OpenMessage(data)
//	view.Seq.Write(view.Seq.Read() + 1)
package serializer
