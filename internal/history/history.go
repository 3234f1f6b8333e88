// Package history keeps a local record of successful disbursements.
// Writes are best-effort from the engine's point of view: the
// submission already happened on chain.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fystack/multisend/pkg/kvstore"
)

const recordPrefix = "disbursement/"

type Record struct {
	ID          string    `json:"id"`
	ChainID     string    `json:"chain_id"`
	Asset       string    `json:"asset"`
	TxHash      string    `json:"tx_hash"`
	Recipients  int       `json:"recipients"`
	Total       string    `json:"total"`
	ExplorerURL string    `json:"explorer_url,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type Store struct {
	kv *kvstore.BadgerStore
}

func Open(dir string) (*Store, error) {
	kv, err := kvstore.NewBadgerStore(dir, "multisend")
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Store{kv: kv}, nil
}

func (s *Store) Record(rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record id is empty")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.kv.Set(recordPrefix+rec.ChainID+"/"+rec.ID, data)
}

// List returns recorded disbursements, optionally filtered to one
// chain ID.
func (s *Store) List(chainID string) ([]Record, error) {
	prefix := recordPrefix
	if chainID != "" {
		prefix += chainID + "/"
	}

	pairs, err := s.kv.List(prefix)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(pairs))
	for _, pair := range pairs {
		var rec Record
		if err := json.Unmarshal(pair.Value, &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", pair.Key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}
