// Package session persists quote state in redis so a quote survives across
// requests and can be edited by several collaborators.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/obrafurniture/quote-service/internal/quote"
	pkgerrors "github.com/obrafurniture/quote-service/pkg/errors"
	"github.com/obrafurniture/quote-service/pkg/logger"
	pkgredis "github.com/obrafurniture/quote-service/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 72 * time.Hour

	keyPrefix         = "quote"
	maxUpdateAttempts = 16
)

// Store keeps one JSON-encoded quote.State per session id.
type Store struct {
	client *pkgredis.Client
	ttl    time.Duration
	logg   *logger.Logger
}

func NewStore(client *pkgredis.Client, ttl time.Duration, logg *logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{client: client, ttl: ttl, logg: logg}
}

func (s *Store) key(id string) string {
	return s.client.Key(keyPrefix, id)
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found").WithDetails(map[string]any{"id": id})
}

func dependency(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

// Create stores state under a fresh id.
func (s *Store) Create(ctx context.Context, state quote.State) (string, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quote state")
	}
	id := uuid.NewString()
	ok, err := s.client.Universal().SetNX(ctx, s.key(id), payload, s.ttl).Result()
	if err != nil {
		return "", dependency(err, "store quote")
	}
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "quote id collision")
	}
	s.logg.Info(s.logg.WithQuoteID(ctx, id), "quote.session.created")
	return id, nil
}

// Load returns the stored state for id.
func (s *Store) Load(ctx context.Context, id string) (quote.State, error) {
	raw, err := s.client.Universal().Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quote.State{}, notFound(id)
	}
	if err != nil {
		return quote.State{}, dependency(err, "load quote")
	}
	return decode(raw)
}

func decode(raw []byte) (quote.State, error) {
	var state quote.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return quote.State{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode quote state")
	}
	return state, nil
}

// Update loads the state for id, applies fn and writes the result back
// atomically. Concurrent writers to the same id are serialized through
// WATCH; a writer that loses the race re-reads and re-applies fn, so no
// update is lost. An error from fn aborts without writing and is returned
// unchanged.
func (s *Store) Update(ctx context.Context, id string, fn func(*quote.State) error) (quote.State, error) {
	key := s.key(id)
	var (
		updated quote.State
		fnErr   error
	)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return notFound(id)
		}
		if err != nil {
			return dependency(err, "load quote")
		}
		state, err := decode(raw)
		if err != nil {
			return err
		}
		if fnErr = fn(&state); fnErr != nil {
			return fnErr
		}
		payload, err := json.Marshal(state)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quote state")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = state
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.client.Universal().Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if fnErr != nil {
			return quote.State{}, fnErr
		}
		if !errors.Is(err, redis.TxFailedErr) {
			if pkgerrors.As(err) != nil {
				return quote.State{}, err
			}
			return quote.State{}, dependency(err, "update quote")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return quote.State{}, dependency(ctxErr, "update quote")
		}
	}
	s.logg.Warn(s.logg.WithQuoteID(ctx, id), "quote.session.update_contended")
	return quote.State{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("quote %s is being modified concurrently, retry", id))
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.Universal().Del(ctx, s.key(id)).Result()
	if err != nil {
		return dependency(err, "delete quote")
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}
