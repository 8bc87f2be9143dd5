// Package history persists completed generations.
package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/generation"
	"go.etcd.io/bbolt"
)

const (
	generationsBucket = "generations"
	// byTimeBucket maps 8-byte big-endian creation time + id to id so a
	// cursor walks generations in creation order.
	byTimeBucket = "generations_by_time"
)

// Store is the persistence contract used by the assistant service.
type Store interface {
	Save(ctx context.Context, g *generation.Generation) error
	Get(ctx context.Context, id string) (*generation.Generation, error)
	List(ctx context.Context, limit int) ([]*generation.Generation, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore creates a new BoltDB-backed generation store
func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.CodeIoError, "history", fmt.Sprintf("failed to create directory %s", dir), err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		if strings.Contains(err.Error(), "timeout") {
			return nil, errors.New(errors.CodeIoError, "history",
				fmt.Sprintf("history file '%s' is already in use by another process. "+
					"Set NETCONFIG_HISTORY_PATH to use a different file", dbPath), err)
		}
		return nil, errors.New(errors.CodeIoError, "history", "failed to open bolt db", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(generationsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(byTimeBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.New(errors.CodeIoError, "history", "failed to create buckets", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the BoltDB connection
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func timeKey(g *generation.Generation) []byte {
	key := make([]byte, 8, 8+len(g.ID))
	binary.BigEndian.PutUint64(key, uint64(g.CreatedAt.UnixNano()))
	return append(key, g.ID...)
}

// Save stores a new generation
func (s *BoltStore) Save(ctx context.Context, g *generation.Generation) error {
	if g == nil || g.ID == "" {
		return errors.New(errors.CodeInvalidParameter, "history", "generation id is required", nil)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(generationsBucket))

		if bucket.Get([]byte(g.ID)) != nil {
			return errors.New(errors.CodeAlreadyExists, "history", fmt.Sprintf("generation %s already exists", g.ID), nil)
		}

		data, err := json.Marshal(g)
		if err != nil {
			return errors.New(errors.CodeInternalError, "history", "failed to marshal generation", err)
		}

		if err := bucket.Put([]byte(g.ID), data); err != nil {
			return errors.New(errors.CodeIoError, "history", "failed to store generation", err)
		}
		if err := tx.Bucket([]byte(byTimeBucket)).Put(timeKey(g), []byte(g.ID)); err != nil {
			return errors.New(errors.CodeIoError, "history", "failed to index generation", err)
		}
		return nil
	})
}

// Get retrieves a generation by ID
func (s *BoltStore) Get(ctx context.Context, id string) (*generation.Generation, error) {
	var g generation.Generation

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(generationsBucket)).Get([]byte(id))
		if data == nil {
			return errors.New(errors.CodeNotFound, "history", fmt.Sprintf("generation %s not found", id), nil)
		}
		return json.Unmarshal(data, &g)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns up to limit generations, newest first. limit <= 0 means all.
func (s *BoltStore) List(ctx context.Context, limit int) ([]*generation.Generation, error) {
	var out []*generation.Generation

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(generationsBucket))
		c := tx.Bucket([]byte(byTimeBucket)).Cursor()

		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			raw := data.Get(id)
			if raw == nil {
				continue
			}
			var g generation.Generation
			if err := json.Unmarshal(raw, &g); err != nil {
				continue // skip corrupt entries
			}
			out = append(out, &g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a generation
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(generationsBucket))
		raw := bucket.Get([]byte(id))
		if raw == nil {
			return errors.New(errors.CodeNotFound, "history", fmt.Sprintf("generation %s not found", id), nil)
		}

		var g generation.Generation
		if err := json.Unmarshal(raw, &g); err == nil {
			if err := tx.Bucket([]byte(byTimeBucket)).Delete(timeKey(&g)); err != nil {
				return errors.New(errors.CodeIoError, "history", "failed to delete index entry", err)
			}
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return errors.New(errors.CodeIoError, "history", "failed to delete generation", err)
		}
		return nil
	})
}
