package serializer

import (
	"testing"

	"github.com/ValentinKolb/inplace/wire/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"Empty": {
			Kind: common.MsgKSuccess,
		},
		"SmallKeyOnly": {
			Kind: common.MsgKGet,
			Key:  "k",
		},
		"LargeKeyOnly": {
			Kind: common.MsgKGet,
			Key:  "this-is-a-very-large-key-that-could-be-used-for-storing-data-or-as-a-document-id-in-some-cases",
		},
		"SmallPayload": {
			Kind:    common.MsgKPut,
			Key:     "key",
			Payload: []byte("v"),
		},
		"LargePayload": {
			Kind:    common.MsgKPut,
			Key:     "key",
			Payload: make([]byte, 1024), // 1KB of data
		},
		"VeryLargePayload": {
			Kind:    common.MsgKPut,
			Key:     "key",
			Payload: make([]byte, 1024*16), // 16KB of data
		},
		"ManyTags": {
			Kind: common.MsgKPut,
			Key:  "key",
			Tags: []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"},
		},
		"CompleteMessage": {
			Kind:     common.MsgKWatch,
			Key:      "complete-test-key",
			Seq:      10000,
			Deadline: 20000,
			Payload:  []byte("test-payload-data"),
			Ok:       true,
			Err:      "This is a test error message",
			Tags:     []string{"bench"},
			Meta:     []byte("test-meta-data-for-benchmarking"),
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message kinds
func BenchmarkSerialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message kinds
func BenchmarkDeserialize(b *testing.B) {
	messages := benchmarkMessages()
	serializedData := make(map[string]map[string][]byte)

	// Pre-serialize all messages with all serializers
	for name, factory := range testSerializers {
		serializer := factory()
		serializedData[name] = make(map[string][]byte)

		for msgName, msg := range messages {
			data, err := serializer.Serialize(msg)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", msgName, name, err)
			}
			serializedData[name][msgName] = data
		}
	}

	for name, factory := range testSerializers {
		for msgName := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data := serializedData[name][msgName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var msg common.Message
					err := serializer.Deserialize(data, &msg)
					if err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkOpenMessage benchmarks zero-copy access, which only validates the bytes
func BenchmarkOpenMessage(b *testing.B) {
	serializer := NewBinarySerializer()
	for msgName, msg := range benchmarkMessages() {
		data, err := serializer.Serialize(msg)
		if err != nil {
			b.Fatalf("Failed to serialize %s: %v", msgName, err)
		}
		b.Run(msgName, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				view, err := OpenMessage(data)
				if err != nil {
					b.Fatalf("Failed to open: %v", err)
				}
				_ = view.Seq.Read()
			}
		})
	}
}

// BenchmarkSize measures and reports the serialized size for each message kind
func BenchmarkSize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		serializer := factory()

		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				// Report the size as a custom metric
				b.ReportMetric(float64(len(data)), "bytes")

				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
