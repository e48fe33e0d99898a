// Package storage реализует хранилище данных на основе PostgreSQL
// для пользователей, курсов, групп, тем и задач. Предоставляет методы
// создания, чтения, обновления и удаления записей; уникальность
// username и phone обеспечивается индексами на уровне базы.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/entercode/education-backend/internal/lib/errs"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса.
const uniqueViolation = "23505"

// wrapWriteErr приводит ошибки записи к таксономии бизнес-уровня:
// нарушение уникальности становится errs.ErrConflict.
func wrapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, errs.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// wrapReadErr приводит ошибки чтения к таксономии бизнес-уровня:
// отсутствие строки становится errs.ErrNotFound.
func wrapReadErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
