// Package orderarchive uploads completed-order receipts to Google Cloud
// Storage as compressed JSONL files, one file per completion day per flush.
package orderarchive

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// Config holds configuration for the Archiver.
type Config struct {
	BucketName    string
	ObjectPrefix  string
	BatchSize     int
	FlushInterval time.Duration
	UploadTimeout time.Duration
}

// Archiver buffers placed orders and uploads them in batches grouped by the
// day the order was placed. Archival is best effort: a failed upload is
// logged, never surfaced to checkout.
type Archiver struct {
	client    GCSClient
	config    Config
	logger    zerolog.Logger
	inputChan chan grocery.PlacedOrder
	wg        sync.WaitGroup
}

// NewArchiver creates an Archiver for the configured bucket.
func NewArchiver(client GCSClient, config Config, logger zerolog.Logger) (*Archiver, error) {
	if client == nil {
		return nil, errors.New("GCS client cannot be nil")
	}
	if config.BucketName == "" {
		return nil, errors.New("GCS bucket name is required")
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 16
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = time.Minute
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = 30 * time.Second
	}
	return &Archiver{
		client:    client,
		config:    config,
		logger:    logger.With().Str("component", "OrderArchiver").Logger(),
		inputChan: make(chan grocery.PlacedOrder, config.BatchSize*2),
	}, nil
}

// ArchiveOrder enqueues an order for archival without blocking the caller.
func (a *Archiver) ArchiveOrder(order grocery.PlacedOrder) {
	select {
	case a.inputChan <- order:
	default:
		a.logger.Warn().Str("order_id", order.OrderID).Msg("Archive buffer full; order receipt dropped.")
	}
}

// Start begins the batching worker.
func (a *Archiver) Start(ctx context.Context) {
	a.logger.Info().Str("bucket", a.config.BucketName).Msg("Starting order archiver worker...")
	a.wg.Add(1)
	go a.worker(ctx)
}

// Stop drains the buffer, uploads what remains and waits for the worker,
// respecting the context's deadline.
func (a *Archiver) Stop(ctx context.Context) error {
	a.logger.Info().Msg("Stopping order archiver...")
	close(a.inputChan)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info().Msg("Order archiver stopped gracefully.")
		return nil
	case <-ctx.Done():
		a.logger.Error().Err(ctx.Err()).Msg("Timeout waiting for order archiver to stop.")
		return ctx.Err()
	}
}

func (a *Archiver) worker(ctx context.Context) {
	defer a.wg.Done()
	batch := make([]grocery.PlacedOrder, 0, a.config.BatchSize)
	ticker := time.NewTicker(a.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.uploadBatch(context.Background(), batch)
			return

		case order, ok := <-a.inputChan:
			if !ok {
				a.uploadBatch(ctx, batch)
				return
			}
			batch = append(batch, order)
			if len(batch) >= a.config.BatchSize {
				a.uploadBatch(ctx, batch)
				batch = make([]grocery.PlacedOrder, 0, a.config.BatchSize)
				ticker.Reset(a.config.FlushInterval)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				a.uploadBatch(ctx, batch)
				batch = make([]grocery.PlacedOrder, 0, a.config.BatchSize)
			}
		}
	}
}

// uploadBatch groups the orders by completion day and uploads each group as a
// separate compressed object.
func (a *Archiver) uploadBatch(ctx context.Context, batch []grocery.PlacedOrder) {
	if len(batch) == 0 {
		return
	}

	grouped := make(map[string][]grocery.PlacedOrder)
	for _, order := range batch {
		key := order.PlacedAt.UTC().Format("2006/01/02")
		grouped[key] = append(grouped[key], order)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, a.config.UploadTimeout)
	defer cancel()

	for dayKey, orders := range grouped {
		if err := a.uploadGroup(uploadCtx, dayKey, orders); err != nil {
			a.logger.Error().Err(err).Str("day", dayKey).Int("order_count", len(orders)).Msg("Failed to upload order receipts.")
		}
	}
}

func (a *Archiver) uploadGroup(ctx context.Context, dayKey string, orders []grocery.PlacedOrder) error {
	objectName := path.Join(a.config.ObjectPrefix, dayKey, uuid.NewString()+".jsonl.gz")
	writer := a.client.Bucket(a.config.BucketName).Object(objectName).NewWriter(ctx)
	gz := gzip.NewWriter(writer)
	encoder := json.NewEncoder(gz)

	for _, order := range orders {
		if err := encoder.Encode(order); err != nil {
			_ = gz.Close()
			_ = writer.Close()
			return fmt.Errorf("encoding order %s: %w", order.OrderID, err)
		}
	}

	if err := gz.Close(); err != nil {
		_ = writer.Close()
		return fmt.Errorf("closing gzip stream for %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer for %s: %w", objectName, err)
	}

	a.logger.Debug().Str("object", objectName).Int("order_count", len(orders)).Msg("Uploaded order receipts.")
	return nil
}
