package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// EventRow is the archival schema for one event. Params are stored as a JSON
// string so the table schema stays stable as event parameters evolve.
type EventRow struct {
	ID     string    `bigquery:"id"`
	Kind   string    `bigquery:"kind"`
	At     time.Time `bigquery:"at"`
	Params string    `bigquery:"params"`
}

// RowInserter abstracts the archival destination so the sink can be tested
// without a BigQuery client.
type RowInserter interface {
	InsertRows(ctx context.Context, rows []*EventRow) error
	Close() error
}

// BigQueryDatasetConfig holds configuration for the event archive table.
type BigQueryDatasetConfig struct {
	DatasetID       string
	TableID         string
	CredentialsFile string // Optional: path to a service account JSON file.
}

// NewBigQueryClient creates a BigQuery client for the event archive.
func NewBigQueryClient(ctx context.Context, projectID, credentialsFile string, logger zerolog.Logger) (*bigquery.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
		logger.Info().Str("credentials_file", credentialsFile).Msg("Using specified credentials file for BigQuery client.")
	} else {
		logger.Info().Msg("Using Application Default Credentials (ADC) for BigQuery client.")
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	return client, nil
}

// BigQueryInserter implements RowInserter against a BigQuery table, creating
// the table with an inferred schema if it does not exist.
type BigQueryInserter struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	logger   zerolog.Logger
}

// NewBigQueryInserter creates an inserter for the configured table.
func NewBigQueryInserter(
	ctx context.Context,
	client *bigquery.Client,
	cfg *BigQueryDatasetConfig,
	logger zerolog.Logger,
) (*BigQueryInserter, error) {
	if client == nil {
		return nil, errors.New("bigquery client cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("BigQueryDatasetConfig cannot be nil")
	}

	logger = logger.With().Str("dataset_id", cfg.DatasetID).Str("table_id", cfg.TableID).Logger()

	tableRef := client.Dataset(cfg.DatasetID).Table(cfg.TableID)
	if _, err := tableRef.Metadata(ctx); err != nil {
		if !strings.Contains(err.Error(), "notFound") {
			return nil, fmt.Errorf("failed to get BigQuery table metadata: %w", err)
		}
		logger.Warn().Msg("BigQuery table not found. Attempting to create with inferred schema.")
		inferredSchema, inferErr := bigquery.InferSchema(EventRow{})
		if inferErr != nil {
			return nil, fmt.Errorf("failed to infer schema for EventRow: %w", inferErr)
		}
		if createErr := tableRef.Create(ctx, &bigquery.TableMetadata{Schema: inferredSchema}); createErr != nil {
			return nil, fmt.Errorf("failed to create BigQuery table %s.%s: %w", cfg.DatasetID, cfg.TableID, createErr)
		}
		logger.Info().Msg("BigQuery table created successfully.")
	}

	return &BigQueryInserter{
		client:   client,
		inserter: tableRef.Inserter(),
		logger:   logger.With().Str("component", "BigQueryInserter").Logger(),
	}, nil
}

// InsertRows streams a batch of rows into the table.
func (i *BigQueryInserter) InsertRows(ctx context.Context, rows []*EventRow) error {
	if err := i.inserter.Put(ctx, rows); err != nil {
		i.logger.Error().Err(err).Int("row_count", len(rows)).Msg("Failed to insert event rows.")
		return fmt.Errorf("bigquery put: %w", err)
	}
	return nil
}

// Close is a no-op; the client's lifecycle is managed by the caller.
func (i *BigQueryInserter) Close() error { return nil }

// ArchiveSinkConfig holds configuration for the batching archive sink.
type ArchiveSinkConfig struct {
	BatchSize     int
	FlushInterval time.Duration // How often to flush a partial batch.
	InsertTimeout time.Duration // The timeout for a single flush operation.
}

// ArchiveSink is an event Logger that batches events and archives them via a
// RowInserter. Events arriving while the input buffer is full are dropped, per
// the fire-and-forget contract.
type ArchiveSink struct {
	config    *ArchiveSinkConfig
	inserter  RowInserter
	logger    zerolog.Logger
	inputChan chan Event
	wg        sync.WaitGroup
}

// NewArchiveSink creates a batching archive sink.
func NewArchiveSink(
	config *ArchiveSinkConfig,
	inserter RowInserter,
	logger zerolog.Logger,
) *ArchiveSink {
	return &ArchiveSink{
		config:    config,
		inserter:  inserter,
		logger:    logger.With().Str("component", "ArchiveSink").Logger(),
		inputChan: make(chan Event, config.BatchSize*2),
	}
}

// Log enqueues the event for archival without blocking the caller.
func (s *ArchiveSink) Log(event Event) {
	select {
	case s.inputChan <- event:
	default:
		s.logger.Warn().Str("event_id", event.ID).Msg("Archive buffer full; event dropped.")
	}
}

// Start begins the batching worker.
func (s *ArchiveSink) Start(ctx context.Context) {
	s.logger.Info().
		Int("batch_size", s.config.BatchSize).
		Dur("flush_interval", s.config.FlushInterval).
		Msg("Starting ArchiveSink worker...")
	s.wg.Add(1)
	go s.worker(ctx)
}

// Stop gracefully drains and shuts down the sink, respecting the context's
// deadline.
func (s *ArchiveSink) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping ArchiveSink...")
	close(s.inputChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("ArchiveSink worker stopped gracefully.")
	case <-ctx.Done():
		s.logger.Error().Err(ctx.Err()).Msg("Timeout waiting for ArchiveSink worker to stop.")
		return ctx.Err()
	}

	if err := s.inserter.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing underlying row inserter.")
	}
	s.logger.Info().Msg("ArchiveSink stopped.")
	return nil
}

// worker collects events into a batch and flushes on size or interval.
func (s *ArchiveSink) worker(ctx context.Context) {
	defer s.wg.Done()
	batch := make([]*EventRow, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// The service is shutting down; flush what remains.
			s.flush(context.Background(), batch)
			return

		case event, ok := <-s.inputChan:
			if !ok {
				s.flush(ctx, batch)
				return
			}
			batch = append(batch, toRow(event))
			if len(batch) >= s.config.BatchSize {
				s.flush(ctx, batch)
				batch = make([]*EventRow, 0, s.config.BatchSize)
				ticker.Reset(s.config.FlushInterval)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(ctx, batch)
				batch = make([]*EventRow, 0, s.config.BatchSize)
			}
		}
	}
}

// flush sends the current batch to the inserter. Failures are logged only.
func (s *ArchiveSink) flush(ctx context.Context, batch []*EventRow) {
	if len(batch) == 0 {
		return
	}

	insertCtx, cancel := context.WithTimeout(ctx, s.config.InsertTimeout)
	defer cancel()

	if err := s.inserter.InsertRows(insertCtx, batch); err != nil {
		s.logger.Error().Err(err).Int("batch_size", len(batch)).Msg("Failed to archive event batch.")
		return
	}
	s.logger.Debug().Int("batch_size", len(batch)).Msg("Archived event batch.")
}

func toRow(event Event) *EventRow {
	params := ""
	if len(event.Params) > 0 {
		if data, err := json.Marshal(event.Params); err == nil {
			params = string(data)
		}
	}
	return &EventRow{
		ID:     event.ID,
		Kind:   string(event.Kind),
		At:     event.At,
		Params: params,
	}
}
