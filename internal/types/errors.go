package types

import "errors"

// Sentinel errors shared across layers. Handlers map these onto HTTP
// statuses at the boundary; nothing below the handler writes a response.
var (
	// ErrNotFound indicates the requested catalog item does not exist.
	ErrNotFound = errors.New("requested item not found")

	// ErrEmptyMessage is returned before any gateway call when the chat
	// message field is missing or blank.
	ErrEmptyMessage = errors.New("message is required")

	// ErrInvalidImage is returned when an OCR or landmark intent fires
	// without a usable attached image.
	ErrInvalidImage = errors.New("invalid image file or missing file")

	// ErrNoAmounts signals that the intent service returned a
	// faq-tour-detail result whose duration or budget list was empty.
	// Extraction must fail loudly here; defaulting would corrupt the
	// catalog filter.
	ErrNoAmounts = errors.New("no amount values present in intent parameters")

	// ErrUpstream wraps translation, vision, and intent service failures.
	ErrUpstream = errors.New("upstream service call failed")

	// ErrCatalog wraps tour catalog storage failures.
	ErrCatalog = errors.New("tour catalog failure")
)
