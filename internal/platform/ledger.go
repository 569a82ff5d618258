package platform

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"modguard/internal/constants"
	"modguard/internal/logger"
)

// Ledger records issued infractions in Redis so the rest of the bot can
// query active state. Records are key-value pairs with TTL-based expiry:
//
//	Key:   infraction:<kind>:<actor id>
//	Value: <reason>
//	TTL:   infraction duration (no TTL for permanent infractions)
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

// Record stores an infraction. A nil expiresAt means permanent; the record
// then has no TTL and outlives process restarts until explicitly cleared.
func (l *Ledger) Record(ctx context.Context, kind, actorID, reason string, expiresAt *time.Time) error {
	key := constants.LedgerKeyPrefix + kind + ":" + actorID

	var ttl time.Duration
	if expiresAt != nil {
		ttl = time.Until(*expiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	return l.client.Set(ctx, key, reason, ttl).Err()
}

// Active reports whether an infraction of the given kind is currently in
// effect for the actor, along with its reason.
func (l *Ledger) Active(ctx context.Context, kind, actorID string) (bool, string, error) {
	key := constants.LedgerKeyPrefix + kind + ":" + actorID

	reason, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, reason, nil
}

// Clear removes an infraction record immediately.
func (l *Ledger) Clear(ctx context.Context, kind, actorID string) error {
	key := constants.LedgerKeyPrefix + kind + ":" + actorID
	return l.client.Del(ctx, key).Err()
}

// ledgeredGateway decorates a Gateway to record successful infractions and
// renames in the ledger. Ledger write failures are logged and swallowed;
// the moderation action already went through.
type ledgeredGateway struct {
	Gateway
	ledger *Ledger
	logger logger.Logger
}

// WithLedger wraps gw so issued infractions and force-renames are tracked.
func WithLedger(gw Gateway, ledger *Ledger, log logger.Logger) Gateway {
	return &ledgeredGateway{Gateway: gw, ledger: ledger, logger: log}
}

func (g *ledgeredGateway) IssueInfraction(ctx context.Context, req InfractionRequest) error {
	if err := g.Gateway.IssueInfraction(ctx, req); err != nil {
		return err
	}

	if err := g.ledger.Record(ctx, req.Kind, req.ActorID, req.Reason, req.ExpiresAt); err != nil {
		g.logger.WarnwCtx(ctx, "Failed to record infraction in ledger",
			"error", err,
			"kind", req.Kind,
			"actor_id", req.ActorID,
		)
	}
	return nil
}

func (g *ledgeredGateway) ForceRename(ctx context.Context, actorID string, expiresAt *time.Time, reason string) error {
	if err := g.Gateway.ForceRename(ctx, actorID, expiresAt, reason); err != nil {
		return err
	}

	if err := g.ledger.Record(ctx, "superstar", actorID, reason, expiresAt); err != nil {
		g.logger.WarnwCtx(ctx, "Failed to record rename in ledger",
			"error", err,
			"actor_id", actorID,
		)
	}
	return nil
}
