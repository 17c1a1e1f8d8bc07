package agent

import "context"

// awaitInitPhase2 blocks until the actor's first message arrives and
// returns its Init payload, or nil if the context was cancelled first
// (spec.md §4.3 step 2: no actor runs a cycle before this completes).
func awaitInitPhase2(ctx context.Context, inbox Mailbox) *InitPhase2 {
	select {
	case <-ctx.Done():
		return nil
	case msg := <-inbox:
		if msg.Kind != KindInitPhase2 {
			return nil
		}
		init := msg.Init
		return &init
	}
}
