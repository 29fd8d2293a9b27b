package dispatch

// Recipient is identified by its host.
type Recipient struct {
	Host string
}

// Payload is shared read-only by every send of one event.
type Payload struct {
	Data string
}

type Event struct {
	Recipients []Recipient
	Payload    Payload
}

// DeliveryResult is the outcome of sending one payload to one recipient.
type DeliveryResult string

const (
	Accepted DeliveryResult = "Accepted"
	Rejected DeliveryResult = "Rejected"
)

func (r DeliveryResult) String() string {
	return string(r)
}
