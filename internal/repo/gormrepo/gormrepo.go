// Package gormrepo — реляционная реализация repo.Storage на gorm
// (Postgres или SQLite).
package gormrepo

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN — база в памяти, если строка подключения не задана.
const DefaultSQLiteDSN = "file:studysync?mode=memory&cache=shared&_pragma=foreign_keys(1)"

// Models — все модели, которые создаёт AutoMigrate (в порядке зависимостей).
var Models = []any{
	&model.User{},
	&model.Document{},
	&model.Note{},
	&model.FlashcardDeck{},
	&model.Flashcard{},
	&model.ThreadPost{},
}

// IsPostgresDSN сообщает, похожа ли строка подключения на Postgres.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// Dialector выбирает диалект по строке подключения: Postgres или SQLite
// (драйвер modernc.org/sqlite без cgo).
func Dialector(dsn string) gorm.Dialector {
	if IsPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

// InitDB открывает базу и применяет миграции.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", repo.ErrUnavailable, err)
	}
	if db.Dialector.Name() == "sqlite" {
		// SQLite допускает одного писателя; одно соединение снимает "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", repo.ErrUnavailable, err)
	}
	return db, nil
}

// Storage реализует repo.Storage поверх *gorm.DB. Методы разнесены по
// репозиториям сущностей.
type Storage struct {
	*userRepo
	*documentRepo
	*noteRepo
	*deckRepo
	*flashcardRepo
	*threadRepo

	db *gorm.DB
}

var _ repo.Storage = (*Storage)(nil)

// New создаёт хранилище поверх уже открытой и мигрированной базы.
func New(db *gorm.DB) *Storage {
	s := &Storage{db: db}
	s.userRepo = &userRepo{db: db}
	s.documentRepo = &documentRepo{db: db}
	s.noteRepo = &noteRepo{db: db}
	s.deckRepo = &deckRepo{db: db}
	s.flashcardRepo = &flashcardRepo{db: db}
	s.threadRepo = &threadRepo{db: db}
	return s
}

// Open — InitDB + New.
func Open(dsn string) (*Storage, error) {
	db, err := InitDB(dsn)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// validID отсекает строки, которые не могут быть id: Postgres отверг бы их
// ошибкой приведения к uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// wrapErr переводит ошибки gorm/драйвера в таксономию repo.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, repo.ErrNotFound), errors.Is(err, repo.ErrReference),
		errors.Is(err, repo.ErrDuplicate), errors.Is(err, repo.ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", repo.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", repo.ErrReference, err)
	default:
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
}

// first читает одну запись по id; отсутствие — (nil, nil).
func first[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	if !validID(id) {
		return nil, nil
	}
	var v T
	err := db.WithContext(ctx).Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return &v, nil
}

// exists проверяет наличие записи T с данным id.
func exists[T any](tx *gorm.DB, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var n int64
	if err := tx.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// updateOne меняет поля записи T в транзакции и перечитывает её.
// Отсутствующая запись — repo.ErrNotFound без изменений в базе.
func updateOne[T any](ctx context.Context, db *gorm.DB, id string, fields map[string]any) (*T, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", repo.ErrNotFound, id)
	}
	var v T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", repo.ErrNotFound, id)
		}
		return tx.Where("id = ?", id).Take(&v).Error
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &v, nil
}

// createOwned вставляет запись после проверки, что владелец существует.
func createOwned[Owner, T any](ctx context.Context, db *gorm.DB, ownerID string, v *T) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists[Owner](tx, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", repo.ErrReference, ownerID)
		}
		return tx.Create(v).Error
	})
	return wrapErr(err)
}
