package store

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetStateMergeLaw(t *testing.T) {
	tests := []struct {
		name    string
		initial State
		partial State
		want    State
	}{
		{
			name:    "override one key",
			initial: State{"a": 1, "b": 2},
			partial: State{"b": 3},
			want:    State{"a": 1, "b": 3},
		},
		{
			name:    "add new key",
			initial: State{"a": 1},
			partial: State{"c": "x"},
			want:    State{"a": 1, "c": "x"},
		},
		{
			name:    "shallow: nested maps replaced, not merged",
			initial: State{"user": map[string]any{"name": "Ann", "age": 31}},
			partial: State{"user": map[string]any{"name": "Bo"}},
			want:    State{"user": map[string]any{"name": "Bo"}},
		},
		{
			name:    "slices replaced wholesale",
			initial: State{"items": []int{1, 2, 3}},
			partial: State{"items": []int{9}},
			want:    State{"items": []int{9}},
		},
		{
			name:    "nil initial",
			initial: nil,
			partial: State{"a": 1},
			want:    State{"a": 1},
		},
		{
			name:    "empty partial keeps state",
			initial: State{"a": 1},
			partial: State{},
			want:    State{"a": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.initial)
			s.SetState(tt.partial)
			if diff := cmp.Diff(tt.want, s.GetState()); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInitialStateIsCopied(t *testing.T) {
	initial := State{"a": 1}
	s := New(initial)
	initial["a"] = 99
	if got := s.GetState()["a"]; got != 1 {
		t.Errorf("store aliased its initial map: a = %v", got)
	}
}

func TestOldSnapshotsAreNotMutated(t *testing.T) {
	s := New(State{"a": 1})
	before := s.GetState()
	s.SetState(State{"a": 2})
	if before["a"] != 1 {
		t.Errorf("old snapshot changed: %v", before)
	}
	if s.GetState()["a"] != 2 {
		t.Errorf("new snapshot = %v", s.GetState())
	}
}

func TestNotificationOrderAndIdenticalState(t *testing.T) {
	s := New(nil)
	var order []string
	var seen []State
	for _, name := range []string{"L1", "L2", "L3"} {
		name := name
		s.Subscribe(func(st State) {
			order = append(order, name)
			seen = append(seen, st)
		})
	}

	s.SetState(State{"x": 1})

	if diff := cmp.Diff([]string{"L1", "L2", "L3"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	current := reflect.ValueOf(s.GetState()).Pointer()
	for i, st := range seen {
		if reflect.ValueOf(st).Pointer() != current {
			t.Errorf("listener %d got a different state object", i)
		}
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := New(nil)
	calls := 0
	unsub := s.Subscribe(func(State) { calls++ })
	other := 0
	s.Subscribe(func(State) { other++ })

	unsub()
	unsub()

	s.SetState(State{"x": 1})
	if calls != 0 {
		t.Errorf("removed listener called %d times", calls)
	}
	if other != 1 {
		t.Errorf("second unsubscribe removed another listener: other = %d", other)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSameFuncSubscribedTwice(t *testing.T) {
	s := New(nil)
	calls := 0
	fn := func(State) { calls++ }
	first := s.Subscribe(fn)
	s.Subscribe(fn)

	s.SetState(State{"x": 1})
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}

	first()
	s.SetState(State{"x": 2})
	if calls != 3 {
		t.Fatalf("calls after removing one registration = %d, want 3", calls)
	}
}

func TestSelfUnsubscribeDuringNotification(t *testing.T) {
	s := New(nil)
	var order []string
	var unsubA func()
	unsubA = s.Subscribe(func(State) {
		order = append(order, "A")
		unsubA()
	})
	s.Subscribe(func(State) { order = append(order, "B") })
	s.Subscribe(func(State) { order = append(order, "C") })

	s.SetState(State{"n": 1})
	s.SetState(State{"n": 2})

	want := []string{"A", "B", "C", "B", "C"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestListenerRemovedMidPassIsSkipped(t *testing.T) {
	s := New(nil)
	var unsubB func()
	bCalls := 0
	s.Subscribe(func(State) { unsubB() })
	unsubB = s.Subscribe(func(State) { bCalls++ })

	s.SetState(State{"n": 1})
	if bCalls != 0 {
		t.Errorf("listener removed earlier in the pass was still called")
	}
}

func TestReentrantSetStateRunsNestedPass(t *testing.T) {
	s := New(State{"count": 0})
	var log []int
	s.Subscribe(func(st State) {
		n := st["count"].(int)
		log = append(log, n)
		if n < 2 {
			s.SetState(State{"count": n + 1})
		}
	})
	s.Subscribe(func(st State) {
		log = append(log, 100+st["count"].(int))
	})

	s.SetState(State{"count": 0})

	// Each nested pass finishes before the outer pass moves on.
	want := []int{0, 1, 2, 102, 101, 100}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("call log mismatch (-want +got):\n%s", diff)
	}
	if got := s.GetState()["count"]; got != 2 {
		t.Errorf("final count = %v", got)
	}
}

func TestSelect(t *testing.T) {
	s := New(State{"a": 1})
	if v, ok := s.Select("a"); !ok || v != 1 {
		t.Errorf("Select(a) = %v, %v", v, ok)
	}
	if _, ok := s.Select("missing"); ok {
		t.Error("Select(missing) reported ok")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := New(nil)
	var mu sync.Mutex
	notified := 0
	s.Subscribe(func(State) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SetState(State{"last": i})
			_ = s.GetState()
		}(i)
	}
	wg.Wait()

	if notified != 50 {
		t.Errorf("notified = %d, want 50", notified)
	}
	if _, ok := s.Select("last"); !ok {
		t.Error("missing key after concurrent updates")
	}
}
