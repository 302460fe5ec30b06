package dflow

import "testing"

func TestBroadcastSenderFansOutToEveryTarget(t *testing.T) {
	a := NewChannel[int]("a", 2)
	bCh := NewChannel[int]("b", 2)
	a.AttachReceiver()
	bCh.AttachReceiver()

	bs := NewBroadcastSender(a, bCh)
	bs.AttachSender()
	tm := &TimeManager{}

	if err := bs.Enqueue(tm, ChannelElement[int]{Timestamp: 1, Payload: 42}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	for _, c := range []*Channel[int]{a, bCh} {
		elem, err := c.Dequeue(tm)
		if err != nil {
			t.Fatalf("dequeue from %s: %v", c.ID(), err)
		}
		if elem.Payload != 42 {
			t.Fatalf("channel %s: expected 42, got %d", c.ID(), elem.Payload)
		}
	}
}

func TestBroadcastSenderClosedTargetReturnsErrClosed(t *testing.T) {
	a := NewChannel[int]("a", 1)
	a.AttachReceiver()
	a.CloseReceiver()

	bs := NewBroadcastSender(a)
	tm := &TimeManager{}
	if err := bs.Enqueue(tm, ChannelElement[int]{Timestamp: 0, Payload: 1}); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
