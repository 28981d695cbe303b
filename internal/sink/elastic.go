// internal/sink/elastic.go
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// ElasticIndexer mirrors each submission into a search index so operators
// can query past submissions. It is never the primary store.
type ElasticIndexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

// NewElasticIndexer wraps an existing client and target index.
func NewElasticIndexer(client *elasticsearch.Client, index string, log logger.Logger) *ElasticIndexer {
	return &ElasticIndexer{
		client: client,
		index:  index,
		logger: log,
	}
}

// Index writes the record as a document keyed by submission id.
func (e *ElasticIndexer) Index(ctx context.Context, record *models.SubmissionRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal submission document: %w", err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(doc),
		e.client.Index.WithDocumentID(record.ID),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index submission: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index submission: %s", res.Status())
	}
	return nil
}

// SubmissionIndexer mirrors records into a search index.
type SubmissionIndexer interface {
	Index(ctx context.Context, record *models.SubmissionRecord) error
}

// WriteThroughSink appends through the primary sink and mirrors the record
// to the search index. An indexing failure is logged and swallowed: the
// primary append decides the submission's fate.
type WriteThroughSink struct {
	primary Sink
	indexer SubmissionIndexer
	logger  logger.Logger
}

// NewWriteThroughSink composes a primary sink with a search indexer.
func NewWriteThroughSink(primary Sink, indexer SubmissionIndexer, log logger.Logger) *WriteThroughSink {
	return &WriteThroughSink{
		primary: primary,
		indexer: indexer,
		logger:  log,
	}
}

func (s *WriteThroughSink) Name() string { return s.primary.Name() }

func (s *WriteThroughSink) Append(ctx context.Context, record *models.SubmissionRecord) error {
	if err := s.primary.Append(ctx, record); err != nil {
		return err
	}

	if err := s.indexer.Index(ctx, record); err != nil {
		s.logger.WithError(err).Warn("Search index write failed", map[string]interface{}{
			"submission_id": record.ID,
		})
	}
	return nil
}
