package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/take-eleven/internal/protocol"
)

// Wire 消息在连接上的编码方式
type Wire interface {
	Encode(msg *protocol.Message) ([]byte, error)
	Decode(data []byte) (*protocol.Message, error)
	// FrameType 返回 websocket 帧类型
	FrameType() int
	Name() string
}

// 支持的编码名称（对应配置 server.codec）
const (
	WireJSON  = "json"
	WireProto = "proto"
)

// ErrUnknownWire 未知的编码名称
var ErrUnknownWire = errors.New("unknown wire codec")

// ForName 根据名称选择编码，空字符串视为 json
func ForName(name string) (Wire, error) {
	switch name {
	case "", WireJSON:
		return JSON{}, nil
	case WireProto:
		return Proto{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWire, name)
	}
}

// JSON 文本帧 {"type":..., "payload":...}
type JSON struct{}

func (JSON) Name() string   { return WireJSON }
func (JSON) FrameType() int { return websocket.TextMessage }

// Encode 将消息编码为 JSON 字节
func (JSON) Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	out := make([]byte, buf.Len()-1)
	copy(out, buf.Bytes())
	return out, nil
}

// Decode 从 JSON 字节解码消息
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func (JSON) Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

// Proto 二进制帧，信封是 google.protobuf.Struct：
// {type: string, payload: Value}
type Proto struct{}

func (Proto) Name() string   { return WireProto }
func (Proto) FrameType() int { return websocket.BinaryMessage }

// Encode 将消息编码为 Protobuf 字节
func (Proto) Encode(msg *protocol.Message) ([]byte, error) {
	env := GetEnvelope()
	defer PutEnvelope(env)

	env.Fields["type"] = structpb.NewStringValue(string(msg.Type))
	if len(msg.Payload) > 0 {
		payload := &structpb.Value{}
		if err := payload.UnmarshalJSON(msg.Payload); err != nil {
			return nil, fmt.Errorf("payload to struct: %w", err)
		}
		env.Fields["payload"] = payload
	}
	return proto.Marshal(env)
}

// Decode 从 Protobuf 字节解码消息
func (Proto) Decode(data []byte) (*protocol.Message, error) {
	env := GetEnvelope()
	defer PutEnvelope(env)

	if err := proto.Unmarshal(data, env); err != nil {
		return nil, err
	}

	typ, ok := env.Fields["type"]
	if !ok {
		return nil, errors.New("missing message type")
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(typ.GetStringValue())
	if payload, ok := env.Fields["payload"]; ok {
		raw, err := payload.MarshalJSON()
		if err != nil {
			PutMessage(msg)
			return nil, fmt.Errorf("struct to payload: %w", err)
		}
		msg.Payload = raw
	}
	return msg, nil
}
