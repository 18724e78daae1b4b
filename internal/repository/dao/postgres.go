package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PostgresMessageDAO struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresMessageDAO(db *gorm.DB) *PostgresMessageDAO {
	return &PostgresMessageDAO{
		db:  db,
		now: time.Now,
	}
}

func (d *PostgresMessageDAO) Insert(ctx context.Context, msg ContactMessage) (ContactMessage, error) {
	msg.ID = 0
	msg = stamp(msg, d.now(), 0)

	result := d.db.WithContext(ctx).Create(&msg)
	if result.Error != nil {
		return ContactMessage{}, mapPgError(result.Error)
	}

	return msg, nil
}

func (d *PostgresMessageDAO) FindAll(ctx context.Context) ([]ContactMessage, error) {
	messages := []ContactMessage{}

	result := d.db.WithContext(ctx).Order("id asc").Find(&messages)
	if result.Error != nil {
		return nil, mapPgError(result.Error)
	}

	return messages, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if pgerrcode.IsConnectionException(pgErr.Code) || pgerrcode.IsInsufficientResources(pgErr.Code) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return err
}
