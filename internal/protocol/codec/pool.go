package codec

import (
	"bytes"
	"maps"
	"sync"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/take-eleven/internal/protocol"
)

// Message pools for reducing GC pressure
var (
	messagePool = sync.Pool{
		New: func() any {
			return &protocol.Message{}
		},
	}

	envelopePool = sync.Pool{
		New: func() any {
			return &structpb.Struct{Fields: make(map[string]*structpb.Value, 2)}
		},
	}

	bufferPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
)

// GetMessage retrieves a Message from the pool
func GetMessage() *protocol.Message {
	return messagePool.Get().(*protocol.Message)
}

// PutMessage returns a Message to the pool
// The message fields are reset to prevent memory leaks
func PutMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	msg.Type = ""
	msg.Payload = nil
	messagePool.Put(msg)
}

// GetEnvelope retrieves an empty protobuf envelope from the pool
func GetEnvelope() *structpb.Struct {
	return envelopePool.Get().(*structpb.Struct)
}

// PutEnvelope returns an envelope to the pool
func PutEnvelope(env *structpb.Struct) {
	if env == nil {
		return
	}
	if env.Fields == nil {
		env.Fields = make(map[string]*structpb.Value, 2)
	}
	maps.DeleteFunc(env.Fields, func(string, *structpb.Value) bool { return true })
	envelopePool.Put(env)
}

// GetBuffer retrieves a bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer returns a bytes.Buffer to the pool
// The buffer is reset but capacity is preserved
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
