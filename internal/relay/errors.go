package relay

import "errors"

var (
	// ErrClientNotFound is returned when no channel exists for a client id.
	ErrClientNotFound = errors.New("relay: client id not found")

	// ErrFrameTimeout is returned by Pop when no frame arrived before the deadline.
	ErrFrameTimeout = errors.New("relay: frame timeout")

	// ErrChannelClosed is returned by Pop once the channel has been removed from its registry.
	ErrChannelClosed = errors.New("relay: channel closed")
)
