package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/workflow"
)

func TestTransitionAllEdges(t *testing.T) {
	tests := []struct {
		from    string
		trigger workflow.Trigger
		to      string
	}{
		{models.StatePlanned, workflow.TriggerDo, models.StateDone},
		{models.StatePlanned, workflow.TriggerCancel, models.StateCancelled},
		{models.StateDone, workflow.TriggerPlan, models.StatePlanned},
		{models.StateDone, workflow.TriggerCancel, models.StateCancelled},
		{models.StateCancelled, workflow.TriggerPlan, models.StatePlanned},
		{models.StateCancelled, workflow.TriggerDo, models.StateDone},
	}
	for _, tt := range tests {
		got, err := workflow.Transition(tt.from, tt.trigger)
		require.NoError(t, err, "%s --%s-->", tt.from, tt.trigger)
		assert.Equal(t, tt.to, got)
	}
}

func TestTransitionNoSelfLoops(t *testing.T) {
	tests := []struct {
		state   string
		trigger workflow.Trigger
	}{
		{models.StatePlanned, workflow.TriggerPlan},
		{models.StateDone, workflow.TriggerDo},
		{models.StateCancelled, workflow.TriggerCancel},
	}
	for _, tt := range tests {
		got, err := workflow.Transition(tt.state, tt.trigger)
		assert.Error(t, err, "%s --%s-->", tt.state, tt.trigger)
		assert.Equal(t, tt.state, got, "state must not move on a rejected firing")
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, workflow.CanTransition(models.StatePlanned, workflow.TriggerDo))
	assert.False(t, workflow.CanTransition(models.StateDone, workflow.TriggerDo))
}
