// Package journal keeps an append-only record of pin state changes.
package journal

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
)

// Ops an event can record.
const (
	OpDirection = "direction"
	OpLevel     = "level"
	OpInput     = "input"
)

// Event is one observed pin state change.
type Event struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Pin   string    `json:"pin"`
	Op    string    `json:"op"`
	Value string    `json:"value"`
}

// Journal records events and serves them back newest first.
type Journal interface {
	Record(e Event) error
	Recent(n int) ([]Event, error)

	io.Closer
}

type badgerJournal struct {
	db *badger.DB
}

const badgerEventPrefix = "ev/"

// OpenBadger opens a badger DB with the given options as an event journal.
func OpenBadger(options badger.Options) (Journal, error) {
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("unable to open badger db: %w", err)
	}

	return &badgerJournal{db: db}, nil
}

func (j *badgerJournal) Close() error {
	return j.db.Close()
}

// Record persists the event. A missing ID or timestamp is filled in, so
// callers can hand over bare pin/op/value triples.
func (j *badgerJournal) Record(e Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(e); err != nil {
		return fmt.Errorf("couldn't encode event with gob: %w", err)
	}

	// zero-padded nanos keep lexicographic key order chronological
	key := fmt.Sprintf("%s%020d/%s", badgerEventPrefix, e.Time.UnixNano(), e.ID)

	err := j.db.Update(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(key), buf.Bytes()); err != nil {
			return fmt.Errorf("couldn't set event: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("couldn't record event: %w", err)
	}

	return nil
}

// Recent returns up to n events, newest first.
func (j *badgerJournal) Recent(n int) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}

	var events []Event

	err := j.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := tx.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerEventPrefix)
		seek := append([]byte(badgerEventPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(events) < n; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var e Event
				if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&e); err != nil {
					return fmt.Errorf("couldn't decode event with gob: %w", err)
				}

				events = append(events, e)
				return nil
			})
			if err != nil {
				return fmt.Errorf("couldn't read event: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't walk events: %w", err)
	}

	return events, nil
}
