// Package catalog persists sensor discovery results between runs.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// Entry is what discovery learned about one log.
// An empty MapFile means the log has no Detroit map.
type Entry struct {
	MapFile   string    `json:"map_file"`
	CheckedAt time.Time `json:"checked_at"`
}

// Catalog stores one bbolt bucket per split, keyed by log ID.
// Opening a catalog takes the file lock; one process at a time.
type Catalog struct {
	DB  *bbolt.DB
	now func() time.Time
}

func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return &Catalog{DB: db, now: time.Now}, nil
}

func (c *Catalog) Close() error {
	return c.DB.Close()
}

func (c *Catalog) Record(split, logID, mapFile string) error {
	if split == "" || logID == "" {
		return fmt.Errorf("catalog record: empty split or log id")
	}
	data, err := json.Marshal(Entry{MapFile: mapFile, CheckedAt: c.now().UTC()})
	if err != nil {
		return err
	}
	return c.DB.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(split))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(logID), data)
	})
}

func (c *Catalog) Get(split, logID string) (e Entry, found bool, err error) {
	err = c.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(split))
		if bucket == nil {
			return nil
		}
		// The value is only valid inside the transaction.
		got := bucket.Get([]byte(logID))
		if got == nil {
			return nil
		}
		found = true
		return json.Unmarshal(got, &e)
	})
	return e, found, err
}

// Lookup returns the cached map file for a log.
func (c *Catalog) Lookup(split, logID string) (string, bool, error) {
	e, found, err := c.Get(split, logID)
	return e.MapFile, found, err
}

// Detroit maps the cataloged Detroit logs of a split to their map files.
func (c *Catalog) Detroit(split string) (map[string]string, error) {
	out := map[string]string{}
	err := c.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(split))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			if e.MapFile != "" {
				out[string(k)] = e.MapFile
			}
			return nil
		})
	})
	return out, err
}
