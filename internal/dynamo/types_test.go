package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Clone(t *testing.T) {
	a := State{1, 2, 3}
	b := a.Clone()
	b[0] = 99
	if a[0] != 1 {
		t.Error("Clone did not create independent copy")
	}
}

func TestResult_Series(t *testing.T) {
	r := &Result{
		States:   []State{{1, 10}, {2, 20}, {3, 30}},
		Controls: []Control{{0.5}, {-0.5}, {1.5}},
	}

	xs := r.StateSeries(1)
	if len(xs) != 3 || xs[0] != 10 || xs[2] != 30 {
		t.Errorf("StateSeries(1) = %v", xs)
	}

	us := r.ControlSeries(0)
	if len(us) != 3 || us[1] != -0.5 {
		t.Errorf("ControlSeries(0) = %v", us)
	}

	if got := r.ControlSeries(3); len(got) != 0 {
		t.Errorf("out-of-range channel should be empty, got %v", got)
	}
}

func TestDivergenceError(t *testing.T) {
	var err error = &DivergenceError{Step: 42, Time: 0.042}

	if !IsDivergence(err) {
		t.Error("IsDivergence should detect a DivergenceError")
	}
	if IsDivergence(ErrEmptyTrajectory) {
		t.Error("IsDivergence should not match ErrEmptyTrajectory")
	}

	wrapped := errors.Join(errors.New("candidate 7"), err)
	if !IsDivergence(wrapped) {
		t.Error("IsDivergence should unwrap joined errors")
	}
}
