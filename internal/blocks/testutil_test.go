package blocks

import "github.com/xtaci/attnsim/internal/dflow"

// collector is a minimal terminal block used by tests to drain a channel
// and record both payloads and the timestamp each arrived at -- Consumer
// only exposes the former, which most block tests don't need but the
// Map latency/II test in map_test.go specifically checks timestamps.
type collector[T any] struct {
	base
	in         *dflow.Channel[T]
	Values     []T
	Timestamps []uint64
}

func newCollector[T any](id string, in *dflow.Channel[T]) *collector[T] {
	c := &collector[T]{base: base{id: id}, in: in}
	in.AttachReceiver()
	return c
}

func (c *collector[T]) Run() {
	defer c.in.CloseReceiver()
	for {
		elem, err := c.in.Dequeue(&c.tm)
		if err != nil {
			return
		}
		c.Values = append(c.Values, elem.Payload)
		c.Timestamps = append(c.Timestamps, elem.Timestamp)
	}
}

// intRange returns a Generator source yielding lo, lo+1, ..., hi-1.
func intRange(lo, hi int) func() (int, bool) {
	cur := lo
	return func() (int, bool) {
		if cur >= hi {
			return 0, false
		}
		v := cur
		cur++
		return v, true
	}
}
