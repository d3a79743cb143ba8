package crc20

import (
	"fmt"
	"testing"

	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/stretchr/testify/assert"
)

func TestDecodeScriptNum(t *testing.T) {
	type spec struct {
		Data     []byte
		Expected int64
	}

	specs := []spec{
		{Data: nil, Expected: 0},
		{Data: []byte{0x01}, Expected: 1},
		{Data: []byte{0x11}, Expected: 17},
		{Data: []byte{0x7f}, Expected: 127},
		{Data: []byte{0x80, 0x00}, Expected: 128},
		{Data: []byte{0xff, 0x00}, Expected: 255},
		{Data: []byte{0x00, 0x01}, Expected: 256},
		{Data: []byte{0xff, 0xff, 0x00}, Expected: 65535},
		{Data: []byte{0x81}, Expected: -1},
		{Data: []byte{0xff, 0x80}, Expected: -255},
		{Data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, Expected: 1<<63 - 1},
	}

	for _, spec := range specs {
		t.Run(fmt.Sprintf("%x", spec.Data), func(t *testing.T) {
			actual, err := TxScriptCodec{}.DecodeScriptNum(spec.Data)
			assert.NoError(t, err)
			assert.Equal(t, spec.Expected, actual)
		})
	}

	for _, data := range [][]byte{
		{0x00},
		{0x80},
		{0x05, 0x00},
		{0x05, 0x80},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09},
	} {
		t.Run(fmt.Sprintf("invalid_%x", data), func(t *testing.T) {
			_, err := TxScriptCodec{}.DecodeScriptNum(data)
			assert.ErrorIs(t, err, errs.ParameterDecodeFailure)
		})
	}
}
