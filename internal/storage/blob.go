// Package storage is the flat blob layer: question images and, for the
// default store driver, one JSON document per data collection.
package storage

import (
	"bytes"
	"encoding/json"
	"io"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// LoadJSON reads the document at key into v. A missing key is not an
// error; v is left as the caller initialized it (the empty collection).
func LoadJSON(bs BlobStore, key string, v interface{}) error {
	rc, err := bs.Get(key)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}

// SaveJSON serializes v and rewrites the whole document at key. Callers
// serialize access within the process; concurrent writers from other
// processes race last-write-wins (same limitation as the original
// browser-storage layout).
func SaveJSON(bs BlobStore, key string, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = bs.Put(key, bytes.NewReader(buf))
	return err
}
