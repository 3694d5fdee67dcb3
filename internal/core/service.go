package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/schoolreport/internal/logging"
	"github.com/jackc/pgx/v5"
)

// Service runs filter queries against the database.
// It holds no per-request state, so one instance serves concurrent requests.
type Service struct {
	db DBTX
}

// NewService creates a Service over db (usually a *pgxpool.Pool).
func NewService(db DBTX) *Service {
	return &Service{db: db}
}

// ListEndpoints returns every registered endpoint with its accepted filter keys.
func (s *Service) ListEndpoints() []EndpointInfo {
	defs := All()
	infos := make([]EndpointInfo, len(defs))
	for i, def := range defs {
		infos[i] = EndpointInfo{
			Key:     def.Key,
			Label:   def.Label,
			Filters: def.Filters.Keys(),
		}
	}
	return infos
}

// Search runs the endpoint named key with the given filter values.
// Unknown filter keys are ignored; an unknown endpoint returns ErrUnknownEndpoint.
func (s *Service) Search(ctx context.Context, key string, values map[string]any) ([]Row, error) {
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, key)
	}

	stmt := def.Compose(values)
	logging.WithFields(ctx, "endpoint", key).Debug("running endpoint query",
		"params", len(stmt.Params),
	)

	rows, err := s.db.Query(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect %s rows: %w", key, err)
	}
	if result == nil {
		result = []Row{}
	}
	return result, nil
}
