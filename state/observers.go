package state

import (
	"slices"
	"sync"
)

type subscriber struct {
	fn        func()
	scheduler Scheduler
}

// observers is the subscriber list shared by cells and derived cells.
type observers struct {
	mu   sync.Mutex
	subs map[int]subscriber
	next int
}

func (o *observers) add(scheduler Scheduler, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	if o.subs == nil {
		o.subs = make(map[int]subscriber)
	}
	id := o.next
	o.next++
	o.subs[id] = subscriber{fn: fn, scheduler: scheduler}
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

func (o *observers) notify() {
	o.mu.Lock()
	if len(o.subs) == 0 {
		o.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(o.subs))
	for id := range o.subs {
		ids = append(ids, id)
	}
	subs := make([]subscriber, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, o.subs[id])
	}
	o.mu.Unlock()

	for _, sub := range subs {
		if sub.scheduler == nil {
			sub.fn()
			continue
		}
		sub.scheduler.Schedule(sub.fn)
	}
}
