package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelmc/dfsmc/internal/primitives"
)

func TestOutcomeOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"deadlock", &primitives.DeadlockError{StateNum: 3}, "deadlock"},
		{"safety", &primitives.SafetyViolation{StateNum: 1, Reason: "bad"}, "safety_violation"},
		{"nonterm", &primitives.TerminationError{FromStateNum: 1, ToStateNum: 3}, "non_termination"},
		{"other", fmt.Errorf("boom"), "error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, outcomeOf(c.err))
		})
	}
}
