package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgxpool.Conn, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Row is one result row keyed by column name.
type Row = map[string]any

// ErrUnknownEndpoint is returned when a query names an endpoint that is not registered.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// EndpointInfo describes a registered endpoint for discovery.
type EndpointInfo struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Filters []string `json:"filters"`
}
