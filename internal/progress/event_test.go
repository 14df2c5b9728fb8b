package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Encode_ProducesWireFormat(t *testing.T) {
	t.Run("progress event carries percent and message", func(t *testing.T) {
		payload := NewProgress(0.5, "halfway").Encode()
		assert.JSONEq(t, `{"type":"progress","progress":0.5,"message":"halfway"}`, string(payload))
	})

	t.Run("zero percent is still serialized", func(t *testing.T) {
		payload := NewProgress(0, "starting").Encode()
		assert.JSONEq(t, `{"type":"progress","progress":0,"message":"starting"}`, string(payload))
	})

	t.Run("error event carries only the message", func(t *testing.T) {
		payload := NewError("engine exploded").Encode()
		assert.JSONEq(t, `{"type":"error","message":"engine exploded"}`, string(payload))
	})

	t.Run("ping event is bare", func(t *testing.T) {
		payload := NewPing().Encode()
		assert.JSONEq(t, `{"type":"ping"}`, string(payload))
	})
}
