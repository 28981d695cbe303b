// internal/sink/sink.go
package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"policyfund-intake/internal/common/config"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// Sink appends completed submission records to an external store. Every
// implementation writes the same 13-field row; only the transport differs.
type Sink interface {
	Name() string
	Append(ctx context.Context, record *models.SubmissionRecord) error
}

// Deps carries the already-initialized clients a backend may need.
type Deps struct {
	DB      *sql.DB
	Elastic *elasticsearch.Client
	ESIndex string
}

// New builds the sink selected by cfg.Backend and, when configured, wraps
// it with the search-index write-through.
func New(ctx context.Context, cfg config.SinkConfig, deps Deps, log logger.Logger) (Sink, error) {
	var (
		primary Sink
		err     error
	)

	switch cfg.Backend {
	case "webhook":
		primary = NewWebhookSink(cfg.Webhook, log)
	case "sheets":
		primary, err = NewSheetsSink(ctx, cfg.Sheets, log)
		if err != nil {
			return nil, err
		}
	case "postgres":
		if deps.DB == nil {
			return nil, fmt.Errorf("postgres sink requires a database connection")
		}
		primary = NewPostgresSink(deps.DB, log)
	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Backend)
	}

	if cfg.IndexToSearch {
		if deps.Elastic == nil {
			return nil, fmt.Errorf("search indexing enabled but elasticsearch is not configured")
		}
		indexer := NewElasticIndexer(deps.Elastic, deps.ESIndex, log)
		return NewWriteThroughSink(primary, indexer, log), nil
	}
	return primary, nil
}
