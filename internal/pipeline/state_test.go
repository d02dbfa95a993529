package pipeline

import "testing"

var runOrder = []State{StateIdle, StateFetching, StateGenerating, StateSynthesizing, StatePublishing}

func TestNewStateMachine_InitialStateIsIdle(t *testing.T) {
	sm := NewStateMachine()
	if sm.Current() != StateIdle {
		t.Fatalf("expected initial state Idle, got %s", sm.Current())
	}
}

func TestStateMachine_ValidTransitions(t *testing.T) {
	tests := []struct {
		from, to State
	}{
		{StateIdle, StateFetching},
		{StateFetching, StateGenerating},
		{StateGenerating, StateSynthesizing},
		{StateSynthesizing, StatePublishing},
		{StatePublishing, StateIdle},
	}

	for _, tt := range tests {
		sm := NewStateMachine()
		advanceTo(t, sm, tt.from)

		if !sm.Transition(tt.to) {
			t.Errorf("transition %s → %s should be valid", tt.from, tt.to)
		}
		if sm.Current() != tt.to {
			t.Errorf("expected state %s, got %s", tt.to, sm.Current())
		}
	}
}

func TestStateMachine_InvalidTransitions(t *testing.T) {
	tests := []struct {
		from, to State
	}{
		{StateIdle, StateGenerating},
		{StateIdle, StatePublishing},
		{StateFetching, StateSynthesizing},
		{StateFetching, StateFetching},
		{StateGenerating, StateFetching},
		{StateSynthesizing, StateGenerating},
		{StatePublishing, StateFetching},
		{StatePublishing, StatePublishing},
	}

	for _, tt := range tests {
		sm := NewStateMachine()
		advanceTo(t, sm, tt.from)

		if sm.Transition(tt.to) {
			t.Errorf("transition %s → %s should be invalid", tt.from, tt.to)
		}
		if sm.Current() != tt.from {
			t.Errorf("state should remain %s after invalid transition, got %s", tt.from, sm.Current())
		}
	}
}

func TestStateMachine_AnyStateToIdle(t *testing.T) {
	for _, s := range runOrder {
		sm := NewStateMachine()
		advanceTo(t, sm, s)

		if !sm.Transition(StateIdle) {
			t.Errorf("transition %s → Idle should always be valid", s)
		}
		if sm.Current() != StateIdle {
			t.Errorf("expected Idle, got %s", sm.Current())
		}
	}
}

func TestStateMachine_OnChangeCallback(t *testing.T) {
	sm := NewStateMachine()

	var seen []State
	sm.SetOnChange(func(from, to State) {
		seen = append(seen, to)
	})

	for _, s := range runOrder[1:] {
		sm.Transition(s)
	}
	sm.Transition(StateIdle)
	sm.Transition(StatePublishing) // 非法，不应回调

	want := []State{StateFetching, StateGenerating, StateSynthesizing, StatePublishing, StateIdle}
	if len(seen) != len(want) {
		t.Fatalf("expected %d callbacks, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("callback %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestStateMachine_ForceIdle(t *testing.T) {
	sm := NewStateMachine()
	advanceTo(t, sm, StateSynthesizing)

	callCount := 0
	sm.SetOnChange(func(from, to State) {
		if from != StateSynthesizing || to != StateIdle {
			t.Errorf("expected Synthesizing→Idle, got %s→%s", from, to)
		}
		callCount++
	})

	sm.ForceIdle()
	sm.ForceIdle() // 已经是 Idle，不再回调
	if callCount != 1 {
		t.Fatalf("expected onChange called once, got %d", callCount)
	}
	if sm.Current() != StateIdle {
		t.Errorf("expected Idle, got %s", sm.Current())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "Idle"},
		{StateFetching, "Fetching"},
		{StateGenerating, "Generating"},
		{StateSynthesizing, "Synthesizing"},
		{StatePublishing, "Publishing"},
		{State(99), "Unknown"},
		{State(-1), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

// advanceTo transitions the state machine from Idle to the target state
// through valid intermediate transitions.
func advanceTo(t *testing.T, sm *StateMachine, target State) {
	t.Helper()
	for _, s := range runOrder[1:] {
		if sm.Current() == target {
			return
		}
		if !sm.Transition(s) {
			t.Fatalf("failed to advance to %s", s)
		}
	}
}
