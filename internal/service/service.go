package service

import (
	"context"

	"sephora/crawler/internal/client"
	"sephora/crawler/internal/domain"
	"sephora/crawler/internal/observability"
	"sephora/crawler/internal/replay"
	"sephora/crawler/internal/resolver"
	"sephora/crawler/internal/sink"
	"sephora/crawler/internal/state"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

// Service drives the fetch -> enrich -> resolve -> persist pipeline per
// category. Categories are independent; failures degrade at the smallest
// possible scope and never stop the loop over the remaining categories.
type Service struct {
	client       client.SephoraClient
	resolver     *resolver.Resolver
	sink         sink.Sink
	recorder     *replay.Recorder
	stateManager state.StateManager
	maxWorkers   int
}

func NewService(
	client client.SephoraClient,
	resolver *resolver.Resolver,
	sink sink.Sink,
	recorder *replay.Recorder,
	stateManager state.StateManager,
	maxWorkers int,
) *Service {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Service{
		client:       client,
		resolver:     resolver,
		sink:         sink,
		recorder:     recorder,
		stateManager: stateManager,
		maxWorkers:   maxWorkers,
	}
}

// ScrapeAll processes every category, fanning out across workers bounded by
// maxWorkers. The shared HTTP client rate-limits the actual requests.
func (s *Service) ScrapeAll(ctx context.Context, categories []domain.Category) error {
	errGroup := new(errgroup.Group)
	semaphore := make(chan struct{}, s.maxWorkers)

	for _, category := range categories {
		category := category
		errGroup.Go(func() error {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := s.processCategory(ctx, category); err != nil {
				// Category-scope failure: log and move on, per the error
				// propagation policy.
				log.Errorf("❌ Skipping category %s: %v", category.Name, err)
			}
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return err
	}

	log.Info("✅ Completed all categories")
	return nil
}

func (s *Service) processCategory(ctx context.Context, category domain.Category) error {
	completed, err := s.stateManager.IsCategoryCompleted(ctx, category.Name)
	if err != nil {
		log.Errorf("Failed to get progress for %s: %v", category.Name, err)
	} else if completed {
		log.Infof("⏭️ Category %s already completed, skipping", category.Name)
		return nil
	}

	log.Infof("🔄 Processing category: %s (%s)", category.Name, category.SeoPath)

	collection, err := s.client.GetAllProductPages(ctx, category)
	if err != nil {
		return err
	}

	enriched := s.enrichProducts(ctx, collection.Products, category)

	if err := s.sink.WriteProducts(ctx, category.Name, enriched); err != nil {
		return err
	}

	skus, errCtx := s.resolver.Resolve(ctx, enriched, category.Name)
	if errCtx != nil {
		observability.BatchesRecorded.Inc()
		if _, recordErr := s.recorder.Record(errCtx); recordErr != nil {
			// Best-effort: the category's SKUs are lost for this run.
			log.Errorf("❌ Failed to record batch failure for %s: %v", category.Name, recordErr)
		}
	} else if len(skus) > 0 {
		if err := s.sink.WriteSkus(ctx, category.Name, skus); err != nil {
			return err
		}
		observability.BatchesResolved.Inc()
	}

	if err := s.stateManager.MarkCategoryCompleted(ctx, category.Name); err != nil {
		log.Errorf("Failed to mark category %s completed: %v", category.Name, err)
	}

	log.Infof("✅ Completed %s: %d products, %d SKUs", category.Name, len(enriched), len(skus))
	return nil
}

// enrichProducts resolves each product's SKU identifier set and short
// description. A product whose lookup fails is dropped from this run; its
// SKUs are never resolved here.
func (s *Service) enrichProducts(ctx context.Context, products []domain.Product, category domain.Category) []domain.Product {
	enriched := make([]domain.Product, 0, len(products))

	for _, product := range products {
		detail, err := s.client.GetProductDetail(ctx, product.ID)
		if err != nil {
			log.Errorf("❌ Failed to enrich product %s in %s: %v", product.ID, category.Name, err)
			observability.EnrichmentFailures.Inc()
			continue
		}

		enriched = append(enriched,
			product.
				WithEnrichment(detail.SkuIDs, detail.QuickLookDesc).
				WithCategory(category.Name))
		observability.ProductsEnriched.Inc()
	}

	return enriched
}
