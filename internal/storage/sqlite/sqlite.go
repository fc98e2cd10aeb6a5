// sqlite - реализация storage.Storage на GORM поверх pure-Go драйвера SQLite.
// Используется для локального запуска (db.driver: sqlite) и в тестах.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Storage struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// New открывает базу по DSN и создаёт недостающие таблицы.
// Для ":memory:" пул ограничивается одним соединением: иначе каждое
// новое соединение видело бы собственную пустую базу.
func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage.sqlite.New"

	if dsn == "" {
		return nil, fmt.Errorf("%s: empty dsn", op)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&userRecord{}, &tokenRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: migrate: %w", op, err)
	}

	return &Storage{db: db, sqlDB: sqlDB}, nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	_ = s.sqlDB.Close()
}

// mapErr переводит ошибки GORM/драйвера в ошибки пакета storage.
func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
