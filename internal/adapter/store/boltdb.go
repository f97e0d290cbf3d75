package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"debloat/internal/domain"
	"debloat/internal/port"
)

var bucketRuns = []byte("runs")

// BoltHistory persists run records in a bbolt database, keyed by timestamp so
// iteration order is chronological.
type BoltHistory struct {
	db *bbolt.DB
}

func NewBoltHistory(path string) (*BoltHistory, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltHistory{db: db}, nil
}

func (s *BoltHistory) PutRun(rec domain.RunRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		key := []byte(rec.Timestamp.UTC().Format("20060102T150405.000000000"))
		return tx.Bucket(bucketRuns).Put(key, data)
	})
}

// RecentRuns returns up to limit records, newest first.
func (s *BoltHistory) RecentRuns(limit int) ([]domain.RunRecord, error) {
	var records []domain.RunRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec domain.RunRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt history entry %s: %w", k, err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BoltHistory) Close() error {
	return s.db.Close()
}

var _ port.History = (*BoltHistory)(nil)
