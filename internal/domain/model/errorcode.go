package model

// ErrorCode is a six-character backend error code carried in Envelope.Code.
// The values are a contract with the backend and must match verbatim.
type ErrorCode string

const (
	CodeAccessTokenExpired  ErrorCode = "A00001" // Access token expired; renewable.
	CodeRefreshTokenMissing ErrorCode = "A00002" // No refresh token on the server side.
	CodeRefreshTokenRevoked ErrorCode = "A00003" // Refresh token not found or revoked.
	CodeTokenWindowExpired  ErrorCode = "A00004" // Validity window expired; renewable.
	CodeTokenWindowExpired2 ErrorCode = "A00005" // Validity window expired, second variant; renewable.
	CodeInvalidPassword     ErrorCode = "A00006"
	CodeUnauthorized        ErrorCode = "A00007"
)

// IsRetryableAuth reports whether the code means the access token can be
// renewed without a fresh login.
func (c ErrorCode) IsRetryableAuth() bool {
	switch c {
	case CodeAccessTokenExpired, CodeTokenWindowExpired, CodeTokenWindowExpired2:
		return true
	}
	return false
}

// CarriesLoginMessage reports whether a fatal 401 with this code forwards
// the server message to the login view. Every code that is not retryable is
// fatal at 401; generic unauthorized and a missing code redirect without a
// message.
func (c ErrorCode) CarriesLoginMessage() bool {
	return c != "" && c != CodeUnauthorized
}
