// Package jobs runs background maintenance for the blob store. Image saves
// are deliberately non-atomic across Postgres and MinIO, so blobs without a
// matching row accumulate; the sweeper reclaims them on a schedule.
package jobs

import (
	"context"
	"time"

	"backoffice/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const sweepPrefix = "products/"

type imageSource interface {
	ListURLs(ctx context.Context) ([]string, error)
}

type blobStore interface {
	KeyFromURL(rawURL string) string
	ListObjects(ctx context.Context, prefix string) ([]services.StorageObject, error)
	Remove(ctx context.Context, key string) error
}

// OrphanSweeper periodically removes stored blobs that no image row
// references anymore.
type OrphanSweeper struct {
	images    imageSource
	storage   blobStore
	scheduler gocron.Scheduler
	interval  time.Duration
	grace     time.Duration
}

// NewOrphanSweeper builds the sweeper. grace is how long an unreferenced
// blob may exist before it is considered abandoned; it covers saves whose
// row insert has not landed yet.
func NewOrphanSweeper(images imageSource, storage blobStore, interval, grace time.Duration) (*OrphanSweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &OrphanSweeper{
		images:    images,
		storage:   storage,
		scheduler: scheduler,
		interval:  interval,
		grace:     grace,
	}, nil
}

func (o *OrphanSweeper) Start() error {
	_, err := o.scheduler.NewJob(
		gocron.DurationJob(o.interval),
		gocron.NewTask(o.run),
		gocron.WithName("orphan-blob-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	o.scheduler.Start()
	log.Info().Dur("interval", o.interval).Msg("orphan blob sweep scheduled")
	return nil
}

func (o *OrphanSweeper) Stop() error {
	return o.scheduler.Shutdown()
}

func (o *OrphanSweeper) run() {
	removed, err := o.Sweep(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("orphan sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("orphan sweep reclaimed blobs")
	}
}

// Sweep lists every stored object under the product prefix and removes the
// ones no row references, skipping objects younger than the grace period.
// Individual removals are best-effort.
func (o *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := o.images.ListURLs(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if key := o.storage.KeyFromURL(url); key != "" {
			referenced[key] = struct{}{}
		}
	}

	objects, err := o.storage.ListObjects(ctx, sweepPrefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-o.grace)
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := o.storage.Remove(ctx, obj.Key); err != nil {
			log.Warn().Err(err).Str("key", obj.Key).Msg("orphan removal failed")
			continue
		}
		removed++
	}
	return removed, nil
}
