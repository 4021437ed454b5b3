package notifiers

import "context"

// Notifier delivers welcome events to a downstream sink (log, webhook, queue).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, evt Event) error
}
