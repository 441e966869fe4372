package canvas

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/canvas/errs"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

const storeOp = "store"

// Key identifies an encoded container by the SHA-1 of its source bytes and
// the parameters it was encoded with.
type Key struct {
	SHA1   string
	Params string
}

// Store caches encoded containers in an SQLite database.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewStore opens or creates the database at file.
func NewStore(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, errs.E(errs.IO, storeOp, err)
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, errs.E(errs.IO, storeOp, err)
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS container (source_id INTEGER NOT NULL, params TEXT NOT NULL, data BLOB NOT NULL, UNIQUE(source_id, params), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, errs.E(errs.IO, storeOp, err)
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

	return &Store{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func (s *Store) addSource(sha string) (int64, error) {
	var id int64
	switch err := s.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := s.db.Exec("INSERT OR IGNORE INTO source (sha1) VALUES (?)", sha)
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return result.LastInsertId()
		}
		// Lost a race with another worker
		return s.addSource(sha)
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Add stores data under key, replacing any existing entry.
func (s *Store) Add(key Key, data []byte) error {
	source, err := s.addSource(key.SHA1)
	if err != nil {
		return errs.E(errs.IO, storeOp, err)
	}

	if _, err := s.db.Exec("INSERT OR REPLACE INTO container (source_id, params, data) VALUES (?, ?, ?)", source, key.Params, s.enc.EncodeAll(data, nil)); err != nil {
		return errs.E(errs.IO, storeOp, err)
	}

	return nil
}

// Find returns the data stored under key, or nil if there is none.
func (s *Store) Find(key Key) ([]byte, error) {
	var data []byte
	switch err := s.db.QueryRow("SELECT c.data FROM container AS c JOIN source AS s ON c.source_id = s.id WHERE s.sha1 = ? AND c.params = ?", key.SHA1, key.Params).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		b, err := s.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, errs.E(errs.Format, storeOp, err)
		}
		return b, nil
	default:
		return nil, errs.E(errs.IO, storeOp, err)
	}
}
