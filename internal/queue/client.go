package queue

import "context"

// Client hands an analysis submission to the worker queue. A nil Client
// means jobs complete in-process instead.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
