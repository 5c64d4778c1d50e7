package bus

import "context"

// Disabled is used when no transport is configured. The site keeps working
// through on-demand reads; only the live property is lost.
type Disabled struct{}

func (Disabled) Publish(ctx context.Context, e Event) error { return nil }

func (Disabled) Subscribe(ctx context.Context) (Subscription, error) {
	return nil, ErrUnavailable
}
