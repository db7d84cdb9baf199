package repository

import (
	"context"
	"database/sql"
	"time"

	"finledger"
	"finledger/internal/repository/db"
)

// Authorization persists user credentials.
type Authorization interface {
	Create(username, passwordDigest string) (int, error)
	FirstByUsername(username string) (*finledger.User, error)
}

// Ledger persists finance entries. Every operation carries the owner id;
// rows belonging to another user are invisible to it.
type Ledger interface {
	Insert(ctx context.Context, e finledger.Entry) (int64, error)
	ListByOwner(ctx context.Context, ownerID int, from, to string) ([]finledger.Entry, error)
	GetByID(ctx context.Context, id int64, ownerID int) (*finledger.Entry, error)
	Update(ctx context.Context, e finledger.Entry) (bool, error)
	Delete(ctx context.Context, id int64, ownerID int) (bool, error)
	TogglePaid(ctx context.Context, id int64, ownerID int) (bool, error)
}

// Sessions persists login sessions.
type Sessions interface {
	Create(ctx context.Context, s finledger.Session) error
	Get(ctx context.Context, id string) (*finledger.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Auth     Authorization
	Ledger   Ledger
	Sessions Sessions
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Auth:     NewUserRepository(conn),
		Ledger:   NewLedgerSQLite(conn),
		Sessions: NewSessionSQLite(conn),
	}
}

// InitDB opens the SQLite file and ensures the schema; re-exported so
// callers wire the whole storage layer through this package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
