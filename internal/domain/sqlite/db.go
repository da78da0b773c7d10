package sqlite

import (
	"os"
	"time"

	"notebloc/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Init() (*gorm.DB, error) {
	dbPath := os.Getenv("SQLITE_PATH")
	if dbPath == "" {
		dbPath = "notebloc.db"
	}
	return open(dbPath)
}

// InitMemory opens a throwaway in-memory database, used by tests.
func InitMemory() (*gorm.DB, error) {
	return open(":memory:")
}

func open(path string) (*gorm.DB, error) {
	// TranslateError maps driver constraint violations to
	// gorm.ErrDuplicatedKey, closing the check-then-insert race window on
	// the unique indexes.
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Note{},
		&entity.Tag{},
		&entity.NoteTag{},
		&entity.NoteShare{},
	)
	if err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
