package pipeline

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/email"
	"github.com/mhaveles/airbnboptimizer/internal/payment"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/distlock"
	"github.com/mhaveles/airbnboptimizer/internal/scrape"
	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

// Scraper starts scrape jobs and reads their results.
type Scraper interface {
	StartJob(ctx context.Context, listingURL string) (scrape.Job, error)
	GetRunStatus(ctx context.Context, runID string) (string, error)
	GetDatasetItems(ctx context.Context, datasetID string) ([]scrape.Item, []byte, error)
}

// Analyst runs the generative stages of the pipeline.
type Analyst interface {
	RunFreemiumAnalysis(ctx context.Context, l *domain.Listing) (string, error)
	RunAnalyzer(ctx context.Context, l *domain.Listing) (string, error)
	RunWriter(ctx context.Context, brief string, l *domain.Listing) (string, error)
}

// CheckoutProvider opens hosted checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, priceID, recordID, email string) (payment.Session, error)
}

// descriptionLockTTL bounds how long a paid-pipeline step may hold the
// per-record lock. Generously above the longest model call.
const descriptionLockTTL = 2 * time.Minute

// Service drives the optimizer pipeline over the record store.
type Service struct {
	store    tablestore.Store
	scraper  Scraper
	analyst  Analyst
	checkout CheckoutProvider
	emailer  *email.Sender
	archiver *scrape.Archiver
	eventLog *payment.EventLog
	redis    *redis.Client
	cfg      config.PaymentConfig
}

// NewService wires the pipeline. emailer, archiver, eventLog, and rdb
// may be nil; the matching concerns are then skipped.
func NewService(
	store tablestore.Store,
	scraper Scraper,
	analyst Analyst,
	checkout CheckoutProvider,
	emailer *email.Sender,
	archiver *scrape.Archiver,
	eventLog *payment.EventLog,
	rdb *redis.Client,
	cfg config.PaymentConfig,
) *Service {
	return &Service{
		store:    store,
		scraper:  scraper,
		analyst:  analyst,
		checkout: checkout,
		emailer:  emailer,
		archiver: archiver,
		eventLog: eventLog,
		redis:    rdb,
		cfg:      cfg,
	}
}

// lockFor returns the per-record lock that serializes paid-pipeline
// steps, or nil when no Redis is configured.
func (s *Service) lockFor(recordID string) *distlock.RedisLock {
	if s.redis == nil {
		return nil
	}
	return distlock.NewRedisLock(s.redis, "description:"+recordID, descriptionLockTTL)
}
