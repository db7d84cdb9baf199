package service

import (
	"context"
	"time"

	"finledger"
	"finledger/internal/repository"
)

// Identity is the authenticated principal bound to a session token.
type Identity struct {
	UserID   int
	Username string
}

// Authorization handles registration, login and session lifecycle.
type Authorization interface {
	SignUp(username, password string) (int, error)
	SignIn(ctx context.Context, username, password string) (string, error)
	Validate(ctx context.Context, token string) (*Identity, error)
	SignOut(ctx context.Context, token string) error
}

// EntryInput carries raw form values for a new or updated entry.
// Validation and conversion happen in the service.
type EntryInput struct {
	Date        string
	Description string
	Category    string
	Type        string
	Amount      string
	Recurring   bool
	Paid        bool
}

// DateRange is an optional inclusive [From, To] filter. Both bounds must be
// set or both empty.
type DateRange struct {
	From string
	To   string
}

// IsZero reports whether no filtering was requested.
func (r DateRange) IsZero() bool { return r.From == "" && r.To == "" }

// Ledger exposes owner-scoped entry operations.
type Ledger interface {
	Add(ctx context.Context, ownerID int, in EntryInput) (int64, error)
	List(ctx context.Context, ownerID int, r DateRange) ([]finledger.Entry, error)
	Get(ctx context.Context, id int64, ownerID int) (*finledger.Entry, error)
	Update(ctx context.Context, id int64, ownerID int, in EntryInput) (bool, error)
	Delete(ctx context.Context, id int64, ownerID int) (bool, error)
	TogglePaid(ctx context.Context, id int64, ownerID int) (bool, error)
}

// Overview is a ledger listing with its aggregate totals.
type Overview struct {
	Entries []finledger.Entry `json:"entries"`
	Summary finledger.Summary `json:"summary"`
	Range   DateRange         `json:"-"`
}

// Reporting exposes the aggregated dashboard view.
type Reporting interface {
	Overview(ctx context.Context, ownerID int, r DateRange) (Overview, error)
}

// AuthConfig carries the auth material that must come from deployment
// configuration; there are no usable defaults for the secret.
type AuthConfig struct {
	SigningSecret string
	SessionTTL    time.Duration
}

type Service struct {
	Authorization
	Ledger
	Reporting
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	ledger := NewLedgerService(repos.Ledger)
	return &Service{
		Authorization: NewAuthService(repos.Auth, repos.Sessions, auth),
		Ledger:        ledger,
		Reporting:     NewReportingService(ledger),
	}
}
