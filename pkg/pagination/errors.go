package pagination

import "fmt"

// Error messages
const (
	ErrPagesRequired      = "Pages are required."
	ErrSelectMenuTooLarge = "Select menu is only available for up to 25 pages."
	ErrButtonCount        = "There must be 2, 3, 4 or 5 buttons provided. You provided %d buttons."
	ErrButtonAppearance   = "Emoji or Label is required. Check button array position %d"
	ErrButtonLinkStyle    = "Link styles cannot be used in this package. Check button array position %d"
)

// ValidationError reports malformed pages or options. It is returned before
// anything is sent to Discord.
type ValidationError struct {
	Field   string
	Index   int // offending button position, -1 when not applicable
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field string, index int, format string, args ...any) *ValidationError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &ValidationError{Field: field, Index: index, Message: msg}
}

// DeliveryError wraps a failed send, edit or fetch against Discord.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("pagination %s: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
