// Package workflow owns the activity state machine: planned, done and
// cancelled are fully interchangeable, self transitions are not allowed.
package workflow

import (
	"fmt"

	"github.com/qmuntal/stateless"

	"crm-activity-bot/internal/models"
)

// Trigger is a workflow action fired against an activity.
type Trigger string

const (
	TriggerPlan   Trigger = "plan"
	TriggerDo     Trigger = "do"
	TriggerCancel Trigger = "cancel"
)

// ErrInvalidTransition reports a firing the machine does not permit.
type ErrInvalidTransition struct {
	State   string
	Trigger Trigger
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s an activity in state %q", e.Trigger, e.State)
}

func newMachine(initial string) *stateless.StateMachine {
	sm := stateless.NewStateMachine(initial)

	sm.Configure(models.StatePlanned).
		Permit(TriggerDo, models.StateDone).
		Permit(TriggerCancel, models.StateCancelled)

	sm.Configure(models.StateDone).
		Permit(TriggerPlan, models.StatePlanned).
		Permit(TriggerCancel, models.StateCancelled)

	sm.Configure(models.StateCancelled).
		Permit(TriggerPlan, models.StatePlanned).
		Permit(TriggerDo, models.StateDone)

	return sm
}

// Transition fires trigger against the current state and returns the
// resulting one.
func Transition(current string, trigger Trigger) (string, error) {
	sm := newMachine(current)
	if err := sm.Fire(trigger); err != nil {
		return current, &ErrInvalidTransition{State: current, Trigger: trigger}
	}
	return sm.MustState().(string), nil
}

// CanTransition reports whether trigger is legal in the current state.
func CanTransition(current string, trigger Trigger) bool {
	ok, err := newMachine(current).CanFire(trigger)
	return ok && err == nil
}
