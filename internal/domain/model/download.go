package model

// Download is a file returned by a binary backend endpoint.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}
