// internal/storage/postgres/postgres.go
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage реализует все интерфейсы пакета storage поверх пула pgx.
type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}
