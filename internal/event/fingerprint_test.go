package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_AllFields(t *testing.T) {
	evt := &Event{
		MessageID: "Alert.1.0",
		EventType: "Alert",
		DeviceID:  "dev1",
		Severity:  "Critical",
		Origin:    &Origin{ODataID: "/redfish/v1/Chassis/1"},
	}

	assert.Equal(t, "Alert.1.0|Alert|dev1|Critical|/redfish/v1/Chassis/1", Fingerprint(evt))
}

func TestFingerprint_MissingFieldsSubstituteDefaults(t *testing.T) {
	assert.Equal(t, "Unknown|Unknown|Unknown|Unknown|Unknown", Fingerprint(&Event{}))
}

func TestFingerprint_EmptyOriginLocator(t *testing.T) {
	evt := &Event{
		MessageID: "Temp.1.0",
		EventType: "Alert",
		DeviceID:  "dev1",
		Severity:  "Warning",
		Origin:    &Origin{},
	}

	assert.Equal(t, "Temp.1.0|Alert|dev1|Warning|Unknown", Fingerprint(evt))
}

func TestFingerprint_MessageArgsAreSignificant(t *testing.T) {
	base := Event{
		MessageID: "Fan.1.0",
		EventType: "Alert",
		DeviceID:  "dev1",
		Severity:  "Warning",
	}

	a := base
	a.MessageArgs = []string{"A"}
	b := base
	b.MessageArgs = []string{"B"}

	assert.NotEqual(t, Fingerprint(&a), Fingerprint(&b))
}

func TestFingerprint_MessageArgsJoinedInOrder(t *testing.T) {
	evt := &Event{
		MessageID:   "Fan.1.0",
		EventType:   "Alert",
		DeviceID:    "dev1",
		Severity:    "Warning",
		MessageArgs: []string{"Fan 3", "2400"},
	}

	assert.Equal(t, "Fan.1.0|Alert|dev1|Warning|Unknown|Fan 3_2400", Fingerprint(evt))
}

func TestFingerprint_EmptyArgsSegmentOmitted(t *testing.T) {
	with := &Event{MessageID: "M", MessageArgs: []string{}}
	without := &Event{MessageID: "M"}

	assert.Equal(t, Fingerprint(without), Fingerprint(with))
}

func TestFingerprint_Deterministic(t *testing.T) {
	evt := &Event{
		MessageID:   "Alert.1.0",
		EventType:   "Alert",
		DeviceID:    "dev1",
		MessageArgs: []string{"x", "y"},
	}

	assert.Equal(t, Fingerprint(evt), Fingerprint(evt))
}
