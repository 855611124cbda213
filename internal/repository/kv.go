// Package repository содержит хранилище ключ-значение для состояния питомца
// и его реализации поверх PostgreSQL, SQLite и памяти.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound возвращается, если ключ отсутствует в хранилище.
	ErrNotFound = errors.New("key not found")
	// ErrDecode возвращается, если сохранённое значение не удалось разобрать.
	ErrDecode = errors.New("decode stored value")
	// ErrUnsupportedURI возвращается для неизвестной схемы адреса хранилища.
	ErrUnsupportedURI = errors.New("unsupported storage uri")
)

// KV описывает хранилище JSON-значений по строковым ключам.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open выбирает реализацию хранилища по схеме адреса: postgres:// и
// postgresql:// открывают PostgreSQL, sqlite://path и file: открывают SQLite,
// пустой адрес создаёт хранилище в памяти.
func Open(ctx context.Context, uri string) (KV, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return NewMemoryKV(), nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return NewPostgresKV(ctx, uri)
	case strings.HasPrefix(uri, "sqlite://"):
		return NewSQLiteKV(ctx, strings.TrimPrefix(uri, "sqlite://"))
	case strings.HasPrefix(uri, "file:"):
		return NewSQLiteKV(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
	}
}
