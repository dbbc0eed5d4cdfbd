package notify

import "context"

// Failure describes an upstream call that did not produce an analysis.
type Failure struct {
	StatusCode   int
	Body         string
	ClauseLength int
	Err          error
}

type Notifier interface {
	UpstreamFailure(ctx context.Context, f Failure) error
}

type Nop struct{}

func (Nop) UpstreamFailure(context.Context, Failure) error { return nil }
