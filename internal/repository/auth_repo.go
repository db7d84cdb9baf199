package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"finledger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, password_digest) VALUES (?, ?)`
	// Usernames are not unique; login matches the earliest registered row.
	selectFirstUserByUsernameSQL = `SELECT id, username, password_digest FROM users WHERE username = ? ORDER BY id LIMIT 1`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(username, passwordDigest string) (int, error) {
	res, err := r.db.Exec(insertUserSQL, username, passwordDigest)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// FirstByUsername fetches the first user with the given name.
// Returns (nil, nil) if not found.
func (r *UserRepository) FirstByUsername(username string) (*finledger.User, error) {
	var u finledger.User
	err := r.db.QueryRow(selectFirstUserByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordDigest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
