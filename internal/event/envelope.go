package event

import "errors"

// ErrUnknownFormat marks a payload that is neither a batch envelope nor
// a bare single event.
var ErrUnknownFormat = errors.New("unknown event format")

// Envelope is the inbound payload shape. Devices either push a batch
// envelope carrying an ordered Events array, or a bare event object
// whose fields unmarshal through the embedded Event.
type Envelope struct {
	ODataType string `json:"@odata.type,omitempty"`
	ID        string `json:"Id,omitempty"`
	Name      string `json:"Name,omitempty"`
	Context   string `json:"Context,omitempty"`

	Events []Event `json:"Events,omitempty"`

	Event
}

// Items returns the ordered events carried by the payload. A payload
// with an Events array is a batch (possibly empty); otherwise a bare
// object with an EventType is a single event.
func (p *Envelope) Items() ([]Event, error) {
	if p.Events != nil {
		return p.Events, nil
	}
	if p.Event.EventType != "" {
		return []Event{p.Event}, nil
	}
	return nil, ErrUnknownFormat
}
