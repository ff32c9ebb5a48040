package pix2gba

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/pix2gba/asset"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Cache stores converted assets keyed by a hash of everything that went
// into them.
type Cache struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCache opens or creates the cache database in file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to create cache")
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Cache{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Get returns the asset stored under key, or nil if there isn't one.
func (c *Cache) Get(key string) (*asset.Asset, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM asset WHERE sha1 = ?", key).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		b, err := c.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrap(err, "corrupt cache entry")
		}
		a := new(asset.Asset)
		if err := a.UnmarshalBinary(b); err != nil {
			return nil, errors.Wrap(err, "corrupt cache entry")
		}
		return a, nil
	default:
		return nil, err
	}
}

// Put stores a under key, replacing any existing entry.
func (c *Cache) Put(key string, a *asset.Asset) error {
	b, err := a.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO asset (sha1, data) VALUES (?, ?)", key, c.enc.EncodeAll(b, nil)); err != nil {
		return err
	}
	return nil
}

// Len returns the number of cached assets.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM asset").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}
