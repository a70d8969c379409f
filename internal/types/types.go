package types

// UnixMilli is a unix timestamp at millisecond resolution.
type UnixMilli int64

type (
	// Error is the wire shape shared by every error response.
	Error struct {
		Success bool   `json:"success"`
		Message string `json:"message" validate:"required"`
	}

	// SubmitResponse is returned by form endpoints on success. Redirect is
	// only set when the client should navigate after the submission.
	SubmitResponse struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect,omitempty"`
	}

	// ReceivedResponse acknowledges an inbound payment webhook.
	ReceivedResponse struct {
		Received bool `json:"received"`
	}
)

func StringError(msg string) Error {
	return Error{Message: msg}
}
