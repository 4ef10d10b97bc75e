package notify

import "testing"

func TestThrottleHoldsBackTheFirstIntervalThenWaits(t *testing.T) {
	th := &Throttle{Interval: 60}

	steps := []struct {
		now  float64
		want bool
	}{
		{5, false},
		{60, false},
		{60.5, true},
		{90, false},
		{120.5, false},
		{121, true},
		{300, true},
	}

	for _, s := range steps {
		if got := th.Allow(s.now); got != s.want {
			t.Errorf("Allow(%v) = %v, want %v", s.now, got, s.want)
		}
	}
}

func TestFanoutDeliversToEveryMessenger(t *testing.T) {
	a, b := NewInbox(), NewInbox()
	f := Fanout{a, b, NewLogMessenger(nil)}

	f.AddMessage("Not Enough Power")
	f.CenterMessage("Vegan Challenge: Negative Food Value!", 5)

	for _, in := range []*Inbox{a, b} {
		msgs := in.Messages()
		if len(msgs) != 2 {
			t.Fatalf("Expected 2 messages, got %d", len(msgs))
		}
		if msgs[0].Center || !msgs[1].Center || msgs[1].Seconds != 5 {
			t.Errorf("Unexpected messages: %+v", msgs)
		}
	}
	if a.Count("Not Enough Power") != 1 {
		t.Errorf("Expected one power notice, got %d", a.Count("Not Enough Power"))
	}
}
