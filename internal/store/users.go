package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// normUsername trims and lowercases the username
func normUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateUser inserts a new user with a hashed password
func (p *Postgres) CreateUser(ctx context.Context, username, password string) (User, error) {
	username = normUsername(username)
	if username == "" || password == "" {
		return User{}, errors.New("missing username or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, created_at
	`, username, string(hash))

	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByUsername returns the user + hashed password for login verification
func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (User, string, error) {
	username = normUsername(username)

	row := p.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username)

	var u User
	var hash string
	if err := row.Scan(&u.ID, &u.Username, &hash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", errors.New("not found")
		}
		return User{}, "", err
	}
	return u, hash, nil
}

// VerifyUser checks username + password match
func (p *Postgres) VerifyUser(ctx context.Context, username, password string) (User, error) {
	u, hash, err := p.GetUserByUsername(ctx, username)
	if err != nil {
		return User{}, errors.New("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, errors.New("invalid credentials")
	}

	return u, nil
}
