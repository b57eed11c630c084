package domain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGasBuffer(t *testing.T) {
	tests := []struct {
		estimate uint64
		want     uint64
	}{
		{0, 0},
		{1, 1},
		{4, 4},
		{5, 6},
		{1000, 1200},
		{21000, 25200},
		{100_001, 120_001},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyGasBuffer(tt.estimate), "estimate %d", tt.estimate)
	}
}

func TestDeploymentAttempt_Advance(t *testing.T) {
	tests := []struct {
		name    string
		from    AttemptState
		to      AttemptState
		wantErr bool
	}{
		{"pending to estimating", AttemptPending, AttemptEstimating, false},
		{"pending to sending skips estimation", AttemptPending, AttemptSending, false},
		{"estimating to sending", AttemptEstimating, AttemptSending, false},
		{"sending to succeeded", AttemptSending, AttemptSucceeded, false},
		{"estimating to failed", AttemptEstimating, AttemptFailed, false},
		{"sending back to estimating", AttemptSending, AttemptEstimating, true},
		{"repeat state", AttemptEstimating, AttemptEstimating, true},
		{"succeeded to failed", AttemptSucceeded, AttemptFailed, true},
		{"failed to succeeded", AttemptFailed, AttemptSucceeded, true},
		{"unknown state", AttemptPending, AttemptState("mined"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &DeploymentAttempt{State: tt.from}
			err := a.Advance(tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, a.State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, a.State)
		})
	}
}

func TestDeploymentAttempt_Outcomes(t *testing.T) {
	from := common.HexToAddress("0x1")
	deployed := common.HexToAddress("0x2")

	t.Run("succeed records the address", func(t *testing.T) {
		a := NewDeploymentAttempt("Counter", from)
		assert.Equal(t, AttemptPending, a.State)
		require.NoError(t, a.Succeed(deployed))
		require.NotNil(t, a.Address)
		assert.Equal(t, deployed, *a.Address)
		assert.ErrorIs(t, a.Fail(errors.New("late")), ErrInvalidTransition)
		assert.Empty(t, a.Error)
	})

	t.Run("fail records the message", func(t *testing.T) {
		a := NewDeploymentAttempt("Counter", from)
		require.NoError(t, a.Fail(errors.New("  ")))
		assert.Equal(t, AttemptFailed, a.State)
		assert.Equal(t, "Unknown error", a.Error)
		assert.Nil(t, a.Address)
	})
}

func TestSubmissionError(t *testing.T) {
	cause := errors.New("insufficient funds")
	err := &SubmissionError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insufficient funds", err.UserMessage())
	assert.Equal(t, "deployment failed: insufficient funds", err.Error())

	assert.Equal(t, "Unknown error", (&SubmissionError{}).UserMessage())
	assert.Equal(t, "Unknown error", ErrorMessage(nil))
}
