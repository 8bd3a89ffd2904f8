package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDefaults(t *testing.T) {
	var evt Event

	assert.Equal(t, "Unknown", evt.GetMessageID())
	assert.Equal(t, "Unknown", evt.GetEventType())
	assert.Equal(t, "Unknown", evt.GetSeverity())
	assert.Equal(t, "Unknown", evt.GetDeviceID())
	assert.Equal(t, "Unknown", evt.GetOriginID())
	assert.Equal(t, "No message provided", evt.GetMessage())
	assert.Equal(t, 0, evt.GetDedupWindowSeconds())
	assert.Empty(t, evt.GetActions())
}

func TestEventUnmarshal_AlternateMessageIDKey(t *testing.T) {
	// Some devices emit MessageID instead of MessageId; JSON field
	// matching is case-insensitive so both land in the same field.
	var a, b Event
	require.NoError(t, json.Unmarshal([]byte(`{"MessageId":"Alert.1.0"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"MessageID":"Alert.1.0"}`), &b))

	assert.Equal(t, "Alert.1.0", a.MessageID)
	assert.Equal(t, "Alert.1.0", b.MessageID)
}

func TestEnvelopeItems_Batch(t *testing.T) {
	payload := `{
		"@odata.type": "#Event.v1_3_0.Event",
		"Id": "evt-1",
		"Events": [
			{"EventType": "Alert", "DeviceId": "dev1"},
			{"EventType": "StatusChange", "DeviceId": "dev2"}
		]
	}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(payload), &env))

	items, err := env.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alert", items[0].EventType)
	assert.Equal(t, "dev2", items[1].DeviceID)
}

func TestEnvelopeItems_SingleEvent(t *testing.T) {
	payload := `{"EventType": "Alert", "MessageId": "Alert.1.0", "DeviceId": "dev1"}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(payload), &env))

	items, err := env.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "dev1", items[0].DeviceID)
}

func TestEnvelopeItems_EmptyBatchIsValid(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"Events": []}`), &env))

	items, err := env.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEnvelopeItems_UnknownFormat(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"Name": "not an event"}`), &env))

	_, err := env.Items()
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
