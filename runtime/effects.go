package runtime

import (
	"context"
	"time"
)

// CallMsg runs Fn on the event loop. Background work uses it to hand
// results back to widgets without locking them.
type CallMsg struct {
	Fn func()
}

func (CallMsg) isMessage() {}

// Delay posts msg once delay has passed, or right away when delay is not
// positive. A cancelled context drops the message.
func Delay(delay time.Duration, msg Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if msg == nil || post == nil {
				return
			}
			if delay > 0 {
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-ctx.Done():
					return
				case <-timer.C:
				}
			}
			post(msg)
		},
	}
}

// Later runs fn on the event loop after delay.
func Later(delay time.Duration, fn func()) Effect {
	if fn == nil {
		return Effect{}
	}
	return Delay(delay, CallMsg{Fn: fn})
}
