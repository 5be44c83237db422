package api

import (
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// Codec serializes the wire envelopes. The simulator selects the format at
// init time; both ends of the protocol use the same format for the whole
// session, each through its own instance.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// NewCodec returns the binary (msgpack) codec when binary is true and the
// textual (JSON) codec otherwise.
func NewCodec(binary bool) Codec {
	if binary {
		h := &codec.MsgpackHandle{}
		h.RawToString = true
		return &wireCodec{handle: h}
	}
	return &wireCodec{handle: &codec.JsonHandle{}}
}

type wireCodec struct {
	handle codec.Handle
}

func (c *wireCodec) Marshal(v interface{}) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, c.handle).Encode(v); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

func (c *wireCodec) Unmarshal(data []byte, v interface{}) error {
	if err := codec.NewDecoderBytes(data, c.handle).Decode(v); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
