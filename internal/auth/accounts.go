// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the bcrypt cost used for configured passwords.
const DefaultBcryptCost = 12

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 8

// Account is a configured user. Password is plain text and hashed when the
// directory is built.
type Account struct {
	Username string
	Password string
	Role     string
}

type account struct {
	username     []byte
	role         string
	passwordHash []byte
}

// UserDirectory verifies configured accounts. Passwords are only held as
// bcrypt hashes.
type UserDirectory struct {
	accounts []account

	// dummyHash is compared for unknown usernames so a miss costs as much
	// as a wrong password.
	dummyHash []byte
}

// NewUserDirectory hashes the passwords of accounts with the given bcrypt
// cost. Accounts with an empty username are skipped.
func NewUserDirectory(accounts []Account, cost int) (*UserDirectory, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	d := &UserDirectory{}
	seen := make(map[string]bool, len(accounts))

	for _, a := range accounts {
		if a.Username == "" {
			continue
		}
		if seen[a.Username] {
			return nil, fmt.Errorf("duplicate account %q", a.Username)
		}
		seen[a.Username] = true
		if len(a.Password) < MinPasswordLength {
			return nil, fmt.Errorf("password for %q must be at least %d characters", a.Username, MinPasswordLength)
		}
		switch a.Role {
		case RoleAdmin, RoleEditor, RoleViewer:
		default:
			return nil, fmt.Errorf("account %q has unknown role %q", a.Username, a.Role)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		d.accounts = append(d.accounts, account{username: []byte(a.Username), role: a.Role, passwordHash: hash})
	}
	if len(d.accounts) == 0 {
		return nil, errors.New("at least one account is required")
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("nutrimaster-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	d.dummyHash = dummy
	return d, nil
}

// Len returns the number of accounts.
func (d *UserDirectory) Len() int {
	return len(d.accounts)
}

// Verify checks username and password and returns the subject of the
// matching account. Usernames are compared in constant time.
func (d *UserDirectory) Verify(username, password string) (*AuthSubject, error) {
	var match *account
	for i := range d.accounts {
		if subtle.ConstantTimeCompare([]byte(username), d.accounts[i].username) == 1 {
			match = &d.accounts[i]
		}
	}

	hash := d.dummyHash
	if match != nil {
		hash = match.passwordHash
	}
	passwordOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	if match == nil || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	return &AuthSubject{
		ID:       username,
		Username: username,
		Roles:    []string{match.role},
	}, nil
}

// ParseBasicAuthHeader decodes an "Authorization: Basic ..." header value.
func ParseBasicAuthHeader(header string) (username, password string, err error) {
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", errors.New("invalid authorization header format")
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", errors.New("failed to decode credentials")
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return "", "", errors.New("invalid credentials format")
	}
	return parts[0], parts[1], nil
}
