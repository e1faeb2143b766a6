package fulfillment

import "errors"

var (
	// ErrInvalidSignature means no configured signing secret validated the
	// webhook payload.
	ErrInvalidSignature = errors.New("webhook signature invalid")

	// ErrIncompleteOrder means the payment carries no resolvable product id
	// or customer email.
	ErrIncompleteOrder = errors.New("payment metadata incomplete")

	// ErrPersistence wraps store failures after verification; the sender
	// gets a 5xx and redelivers, which the order upsert makes safe.
	ErrPersistence = errors.New("fulfillment persistence failure")
)
