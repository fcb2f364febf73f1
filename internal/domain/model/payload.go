package model

// Payload is a response body decoded at the transport boundary. It is either
// a JSONPayload or a BinaryPayload; consumers switch on the concrete type.
type Payload interface {
	isPayload()
}

// JSONPayload is a body that decoded as an Envelope.
type JSONPayload struct {
	Envelope Envelope
}

// BinaryPayload is a raw body, typically a file download.
type BinaryPayload struct {
	Data        []byte
	ContentType string
}

func (JSONPayload) isPayload()   {}
func (BinaryPayload) isPayload() {}
