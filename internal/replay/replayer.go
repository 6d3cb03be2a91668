package replay

import (
	"context"
	"fmt"

	"sephora/crawler/internal/observability"
	"sephora/crawler/internal/resolver"
	"sephora/crawler/internal/sink"

	log "github.com/sirupsen/logrus"
)

type Outcome string

const (
	OutcomeReplayed Outcome = "replayed"
	OutcomeFailed   Outcome = "failed"
)

type Result struct {
	RecordID string
	Outcome  Outcome
}

// Replayer re-drives previously recorded batch failures. The stored mapping
// is exactly the input a retry needs; nothing is re-derived from the catalog.
//
// Record lifecycle: a record is deleted after its batch replays successfully;
// a batch that fails again writes a fresh record under the same key, so
// re-running the replay pass only ever re-attempts or re-fails.
type Replayer struct {
	recorder *Recorder
	resolver *resolver.Resolver
	sink     sink.Sink
}

func NewReplayer(recorder *Recorder, resolver *resolver.Resolver, sink sink.Sink) *Replayer {
	return &Replayer{
		recorder: recorder,
		resolver: resolver,
		sink:     sink,
	}
}

// ReplayAll enumerates every persisted record and re-issues its batch.
func (r *Replayer) ReplayAll(ctx context.Context) ([]Result, error) {
	ids, err := r.recorder.List()
	if err != nil {
		return nil, fmt.Errorf("enumerate error records: %w", err)
	}

	log.Infof("🔄 Replaying %d recorded batch failures", len(ids))

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, Result{RecordID: id, Outcome: r.replay(ctx, id)})
	}

	return results, nil
}

func (r *Replayer) replay(ctx context.Context, id string) Outcome {
	errCtx, err := r.recorder.Load(id)
	if err != nil {
		log.Errorf("❌ Failed to load error record %s: %v", id, err)
		return OutcomeFailed
	}

	skus, failure := r.resolver.ResolveMapping(ctx, errCtx.Mapping, errCtx.Category)
	if failure != nil {
		// Re-record so the next pass picks the batch up again. Same key,
		// fresher context.
		if _, err := r.recorder.Record(failure); err != nil {
			log.Errorf("❌ Failed to re-record batch for %s: %v", errCtx.Category, err)
		}
		observability.BatchReplaysFailed.Inc()
		return OutcomeFailed
	}

	if err := r.sink.WriteSkus(ctx, errCtx.Category, skus); err != nil {
		log.Errorf("❌ Failed to persist replayed SKUs for %s: %v", errCtx.Category, err)
		return OutcomeFailed
	}

	if err := r.recorder.Remove(id); err != nil {
		log.Errorf("❌ Failed to remove consumed record %s: %v", id, err)
		return OutcomeFailed
	}

	log.Infof("✅ Replayed batch for %s (%d SKUs)", errCtx.Category, len(skus))
	observability.BatchesReplayed.Inc()
	return OutcomeReplayed
}
