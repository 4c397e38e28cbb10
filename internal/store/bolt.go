package store

import (
	"fmt"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"github.com/stridelab/go-feed-cache/config"
)

// Bolt is a bbolt-backed Provider. One bucket per namespace.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database file at cfg.Path.
func OpenBolt(cfg config.StoreCfg) (*Bolt, error) {
	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt db %s: %w", cfg.Path, err)
	}
	log.Info().Str("path", cfg.Path).Msg("[store] bolt db opened")
	return &Bolt{db: db}, nil
}

func (b *Bolt) Namespace(name string) Store {
	bucket := []byte(name)
	if err := b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		// The namespace store stays usable; every op will surface the error.
		log.Err(err).Str("namespace", name).Msg("[store] create bucket failed")
	}
	return &boltNamespace{db: b.db, bucket: bucket}
}

func (b *Bolt) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

type boltNamespace struct {
	db     *bolt.DB
	bucket []byte
}

func (n *boltNamespace) Set(key string, value []byte) error {
	return n.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(n.bucket)
		if b == nil {
			return fmt.Errorf("bucket %s missing", n.bucket)
		}
		return b.Put([]byte(key), value)
	})
}

func (n *boltNamespace) Get(key string) (value []byte, ok bool, err error) {
	err = n.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(n.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
			ok = true
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", n.bucket, key, err)
	}
	return value, ok, nil
}

func (n *boltNamespace) Remove(key string) error {
	return n.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(n.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
