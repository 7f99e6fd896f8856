package registry

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const ticketAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// errSimulatedOutage is returned when the simulated registry is asked to fail.
var errSimulatedOutage = errors.New("registry unavailable (simulated)")

// SimulatedClient mimics the registry: six digit user ids and "C" prefixed
// ten character ticket ids. FailureRate in [0,1] injects outages.
type SimulatedClient struct {
	vendor      string
	failureRate float64
	logger      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedClient builds a simulated registry. A nil rng seeds from the runtime.
func NewSimulatedClient(vendor string, failureRate float64, rng *rand.Rand, logger *zap.Logger) *SimulatedClient {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SimulatedClient{vendor: vendor, failureRate: failureRate, rng: rng, logger: logger}
}

// RegisterUser implements Client.
func (c *SimulatedClient) RegisterUser(ctx context.Context, fullName, mobileNumber string) Result[int64] {
	if err := ctx.Err(); err != nil {
		return Failure[int64](err)
	}
	c.logger.Info("registry register user",
		zap.String("vendor", c.vendor),
		zap.String("full_name", fullName),
		zap.String("mobile_number", mobileNumber),
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shouldFail() {
		return Failure[int64](errSimulatedOutage)
	}
	return Success(int64(100000 + c.rng.IntN(900000)))
}

// PostComplaint implements Client.
func (c *SimulatedClient) PostComplaint(ctx context.Context, payload ComplaintPayload) Result[string] {
	if err := ctx.Err(); err != nil {
		return Failure[string](err)
	}
	c.logger.Info("registry post complaint",
		zap.String("vendor", c.vendor),
		zap.Int("category_id", payload.CategoryID),
		zap.String("address", payload.Address),
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shouldFail() {
		return Failure[string](errSimulatedOutage)
	}
	var b strings.Builder
	b.WriteByte('C')
	for i := 0; i < 10; i++ {
		b.WriteByte(ticketAlphabet[c.rng.IntN(len(ticketAlphabet))])
	}
	return Success(b.String())
}

func (c *SimulatedClient) shouldFail() bool {
	if c.failureRate <= 0 {
		return false
	}
	return c.rng.Float64() < c.failureRate
}
