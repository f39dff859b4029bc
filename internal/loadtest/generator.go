package loadtest

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okian/areacheck/internal/domain/area"
	"github.com/okian/areacheck/pkg/logger"
)

// gridSteps is the number of steps an interval is divided into. Values are
// always grid points so they stay exact decimals.
const gridSteps = 200

// generateAttempts creates cfg.Attempts in-range attempts spread round robin
// over cfg.Sessions fresh session ids.
func generateAttempts(ctx context.Context, cfg *Config, stats *Stats) ([]Attempt, error) {
	variant, err := area.LookupVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	sessions := make([]string, cfg.Sessions)
	for i := range sessions {
		sessions[i] = uuid.NewString()
	}

	b := variant.Bounds
	attempts := make([]Attempt, cfg.Attempts)
	for i := range attempts {
		attempts[i] = Attempt{
			SessionID: sessions[i%len(sessions)],
			X:         pick(rng, b.X).String(),
			Y:         pick(rng, b.Y).String(),
			R:         pickRadius(rng, b.R).String(),
		}
	}
	stats.AttemptsGenerated = len(attempts)

	logger.Get().Info(ctx, "generated attempts",
		logger.Int("attempts", len(attempts)),
		logger.Int("sessions", len(sessions)),
		logger.String("variant", variant.Name),
		logger.Any("seed", seed),
	)
	return attempts, nil
}

// pick returns a random grid point inside iv, skipping open ends.
func pick(rng *rand.Rand, iv area.Interval) decimal.Decimal {
	lo, hi := 0, gridSteps
	if iv.MinOpen {
		lo++
	}
	if iv.MaxOpen {
		hi--
	}
	k := lo + rng.IntN(hi-lo+1)
	step := iv.Max.Sub(iv.Min).Div(decimal.NewFromInt(gridSteps))
	return iv.Min.Add(step.Mul(decimal.NewFromInt(int64(k))))
}

func pickRadius(rng *rand.Rand, rb area.RadiusBounds) decimal.Decimal {
	if len(rb.Allowed) > 0 {
		return rb.Allowed[rng.IntN(len(rb.Allowed))]
	}
	return pick(rng, rb.Range)
}
