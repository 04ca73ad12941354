// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const sessionKeyPrefix = "sess/"

// expiredRetention keeps an expired session readable for a while so Get
// can answer ErrSessionExpired instead of ErrSessionNotFound. Badger drops
// the entry on its own after that, whether or not CleanupExpired ran.
const expiredRetention = time.Hour

// BadgerSessionStore keeps sessions in BadgerDB so logins survive a restart.
// Sessions are JSON values under "sess/<id>" written with a badger TTL.
type BadgerSessionStore struct {
	db *badger.DB
}

// OpenBadgerSessionStore opens a BadgerDB at dir. An empty dir keeps the
// database in memory. Close releases it.
func OpenBadgerSessionStore(dir string) (*BadgerSessionStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerSessionStore{db: db}, nil
}

func sessionKey(id string) []byte {
	return []byte(sessionKeyPrefix + id)
}

func putSession(txn *badger.Txn, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt) + expiredRetention
	if ttl <= 0 {
		return txn.Delete(sessionKey(session.ID))
	}
	return txn.SetEntry(badger.NewEntry(sessionKey(session.ID), data).WithTTL(ttl))
}

func getSession(txn *badger.Txn, id string) (*Session, error) {
	item, err := txn.Get(sessionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var session Session
	if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &session) }); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *BadgerSessionStore) Create(_ context.Context, session *Session) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putSession(txn, session)
	})
}

func (s *BadgerSessionStore) Get(_ context.Context, id string) (*Session, error) {
	var session *Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = getSession(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if session.expiredAt(time.Now()) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *BadgerSessionStore) Touch(_ context.Context, id string, expiresAt time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		session, err := getSession(txn, id)
		if err != nil {
			return err
		}
		session.LastAccessedAt = time.Now()
		session.ExpiresAt = expiresAt
		return putSession(txn, session)
	})
}

func (s *BadgerSessionStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// CleanupExpired deletes sessions past their expiry in one transaction.
func (s *BadgerSessionStore) CleanupExpired(_ context.Context) (int, error) {
	now := time.Now()
	removed := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(sessionKeyPrefix), PrefetchValues: true})
		var expired [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			var session Session
			item := it.Item()
			if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &session) }); err != nil {
				// Undecodable entries are left to their TTL.
				continue
			}
			if session.expiredAt(now) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		it.Close()

		for _, key := range expired {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return removed, nil
}

func (s *BadgerSessionStore) Close() error {
	return s.db.Close()
}
