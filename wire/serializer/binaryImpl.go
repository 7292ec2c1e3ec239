package serializer

import (
	"fmt"

	"github.com/ValentinKolb/inplace/lib/arena"
	"github.com/ValentinKolb/inplace/wire/common"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("serializer")

// NewBinarySerializer creates a new serializer that lays the message out as an in-arena record.
// The same bytes can be opened without copying with OpenMessage.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using the arena encoding
type binarySerializerImpl struct {
}

// --------------------------------------------------------------------------
// Arena Layout
// --------------------------------------------------------------------------

// OptionalBytes is a byte slice that may be absent. Absent and empty are distinct.
type OptionalBytes struct {
	Present bool
	Bytes   arena.Blob
}

// Read returns nil if the slice is absent and the (possibly empty) bytes otherwise
func (o OptionalBytes) Read() []byte {
	if !o.Present {
		return nil
	}
	return o.Bytes.Read()
}

func (o OptionalBytes) Freeze() OptionalBytes {
	o.Bytes = o.Bytes.Freeze()
	return o
}

// MessageView is a zero-copy view over a message in the binary format. Fixed-size fields can be
// updated in place.
type MessageView struct {
	Kind     arena.Literal[uint8]
	Ok       arena.Literal[bool]
	Seq      arena.Literal[uint64]
	Deadline arena.Literal[int64]
	Key      arena.Text
	Payload  OptionalBytes
	Err      arena.Text
	Tags     arena.List[arena.Text]
	Meta     OptionalBytes
}

func (v MessageView) Freeze() MessageView {
	v.Kind = v.Kind.Freeze()
	v.Ok = v.Ok.Freeze()
	v.Seq = v.Seq.Freeze()
	v.Deadline = v.Deadline.Freeze()
	v.Key = v.Key.Freeze()
	v.Payload = v.Payload.Freeze()
	v.Err = v.Err.Freeze()
	v.Tags = v.Tags.Freeze()
	v.Meta = v.Meta.Freeze()
	return v
}

var (
	// OptionalBytesType is union{absent: unit | present: bytes}
	OptionalBytesType = arena.Union("optional_bytes",
		arena.UnitVariant("absent", OptionalBytes{}),
		arena.VariantOf("present", arena.Bytes, func(b arena.Blob) OptionalBytes {
			return OptionalBytes{Present: true, Bytes: b}
		}),
	)

	// MessageType is the record layout of a common.Message
	MessageType = arena.Record("message", func(f *arena.Fields) MessageView {
		return MessageView{
			Kind:     arena.Field(f, arena.U8),
			Ok:       arena.Field(f, arena.Bool),
			Seq:      arena.Field(f, arena.U64),
			Deadline: arena.Field(f, arena.I64),
			Key:      arena.Field(f, arena.Str),
			Payload:  arena.Field(f, OptionalBytesType),
			Err:      arena.Field(f, arena.Str),
			Tags:     arena.Field(f, arena.ListOf(arena.Str)),
			Meta:     arena.Field(f, OptionalBytesType),
		}
	}, arena.U8, arena.Bool, arena.U64, arena.I64, arena.Str, OptionalBytesType, arena.Str, arena.ListOf(arena.Str), OptionalBytesType)
)

// optional plans an OptionalBytes value
func optional(p []byte) arena.Imprinter {
	if p == nil {
		return OptionalBytesType.Variant(0, arena.Unit)
	}
	return OptionalBytesType.Variant(1, arena.Bytes.Value(p))
}

// MessagePlan returns the imprinter that writes msg in the binary format
func MessagePlan(msg common.Message) arena.Imprinter {
	tags := make([]arena.Imprinter, len(msg.Tags))
	for i, tag := range msg.Tags {
		tags[i] = arena.Str.Value(tag)
	}
	return arena.RecordOf(
		arena.U8.Value(uint8(msg.Kind)),
		arena.Bool.Value(msg.Ok),
		arena.U64.Value(msg.Seq),
		arena.I64.Value(msg.Deadline),
		arena.Str.Value(msg.Key),
		optional(msg.Payload),
		arena.Str.Value(msg.Err),
		arena.ListFrom(tags...),
		optional(msg.Meta),
	)
}

// OpenMessage validates b and returns a view over it without copying. b must hold exactly one
// message.
func OpenMessage(b []byte) (MessageView, error) {
	rest, view, err := MessageType.Build(b)
	if err != nil {
		log.Debugf("rejected message of %d bytes: %v", len(b), err)
		return MessageView{}, fmt.Errorf("binary deserialization failed: %w", err)
	}
	if len(rest) != 0 {
		return MessageView{}, fmt.Errorf("binary deserialization failed: %d trailing bytes", len(rest))
	}
	return view, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	data, err := arena.CreateBuffer(MessagePlan(msg))
	if err != nil {
		return nil, fmt.Errorf("binary serialization failed: %w", err)
	}
	return data, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	view, err := OpenMessage(data)
	if err != nil {
		return err
	}
	return view.Decode(msg)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// Decode copies the view into msg. Buffers already held by msg are reused where they are large
// enough. An empty tag list decodes as nil.
func (v MessageView) Decode(msg *common.Message) error {
	var err error
	msg.Kind = common.MessageKind(v.Kind.Read())
	msg.Ok = v.Ok.Read()
	msg.Seq = v.Seq.Read()
	msg.Deadline = v.Deadline.Read()
	if msg.Key, err = v.Key.Read(); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	if msg.Err, err = v.Err.Read(); err != nil {
		return fmt.Errorf("err: %w", err)
	}
	msg.Payload = copyOptional(msg.Payload, v.Payload)
	msg.Meta = copyOptional(msg.Meta, v.Meta)

	n := int(v.Tags.Capacity())
	if n == 0 {
		msg.Tags = nil
		return nil
	}
	msg.Tags = make([]string, 0, n)
	for i, tag := range v.Tags.All() {
		s, err := tag.Read()
		if err != nil {
			return fmt.Errorf("tag %d: %w", i, err)
		}
		msg.Tags = append(msg.Tags, s)
	}
	return nil
}

// copyOptional copies o into dst, allocating only if dst is too small
func copyOptional(dst []byte, o OptionalBytes) []byte {
	if !o.Present {
		return nil
	}
	src := o.Bytes.Read()
	if dst == nil || cap(dst) < len(src) {
		dst = make([]byte, len(src))
	} else {
		dst = dst[:len(src)]
	}
	copy(dst, src)
	return dst
}
