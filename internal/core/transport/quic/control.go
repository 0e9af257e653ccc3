package quic

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	kindHello   = "hello"
	kindWelcome = "welcome"
	kindNotice  = "notice"

	// maxFrameSize 单条控制消息上限
	maxFrameSize = 64 << 10
)

// ErrFrameTooLarge 控制消息超过上限
var ErrFrameTooLarge = errors.New("quic: control frame too large")

// controlMessage 控制流消息
type controlMessage struct {
	Kind      string
	Instance  string
	PeerID    string
	Message   string
	Countdown time.Duration
}

func (m controlMessage) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"kind":         m.Kind,
		"instance":     m.Instance,
		"peer_id":      m.PeerID,
		"message":      m.Message,
		"countdown_ms": float64(m.Countdown.Milliseconds()),
	})
}

func controlFromStruct(s *structpb.Struct) controlMessage {
	f := s.GetFields()
	return controlMessage{
		Kind:      f["kind"].GetStringValue(),
		Instance:  f["instance"].GetStringValue(),
		PeerID:    f["peer_id"].GetStringValue(),
		Message:   f["message"].GetStringValue(),
		Countdown: time.Duration(f["countdown_ms"].GetNumberValue()) * time.Millisecond,
	}
}

// writeControl 写入一条控制消息
func writeControl(w io.Writer, m controlMessage) error {
	st, err := m.toStruct()
	if err != nil {
		return fmt.Errorf("encode control message: %w", err)
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal control message: %w", err)
	}
	if len(data) > maxFrameSize {
		return ErrFrameTooLarge
	}

	frame := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[4:], data)
	_, err = w.Write(frame)
	return err
}

// readControl 读取一条控制消息
func readControl(r io.Reader) (controlMessage, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return controlMessage{}, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > maxFrameSize {
		return controlMessage{}, ErrFrameTooLarge
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return controlMessage{}, err
	}
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return controlMessage{}, fmt.Errorf("unmarshal control message: %w", err)
	}
	return controlFromStruct(st), nil
}
