package registry

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ticketPattern = regexp.MustCompile(`^C[A-Z0-9]{10}$`)

func TestResult(t *testing.T) {
	ok := Success[int64](123456)
	assert.True(t, ok.OK())
	assert.Empty(t, ok.Reason())

	failed := Failure[string](errors.New("timeout"))
	assert.False(t, failed.OK())
	assert.Equal(t, "timeout", failed.Reason())

	assert.False(t, Failure[string](nil).OK())
}

func TestSimulatedClient_RegisterUser(t *testing.T) {
	c := NewSimulatedClient("India", 0, rand.New(rand.NewPCG(1, 2)), zap.NewNop())

	for i := 0; i < 50; i++ {
		res := c.RegisterUser(context.Background(), "Asha", "9876543210")
		require.True(t, res.OK())
		assert.GreaterOrEqual(t, res.Value, int64(100000))
		assert.LessOrEqual(t, res.Value, int64(999999))
	}
}

func TestSimulatedClient_PostComplaint(t *testing.T) {
	c := NewSimulatedClient("India", 0, rand.New(rand.NewPCG(3, 4)), zap.NewNop())

	res := c.PostComplaint(context.Background(), ComplaintPayload{CategoryID: 2, Address: "MG Road"})
	require.True(t, res.OK())
	assert.Regexp(t, ticketPattern, res.Value)
}

func TestSimulatedClient_AlwaysFails(t *testing.T) {
	c := NewSimulatedClient("India", 1, nil, zap.NewNop())

	assert.False(t, c.RegisterUser(context.Background(), "Asha", "1").OK())
	assert.False(t, c.PostComplaint(context.Background(), ComplaintPayload{}).OK())
}

func TestSimulatedClient_CancelledContext(t *testing.T) {
	c := NewSimulatedClient("India", 0, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.PostComplaint(ctx, ComplaintPayload{})
	assert.ErrorIs(t, res.Err, context.Canceled)
}
