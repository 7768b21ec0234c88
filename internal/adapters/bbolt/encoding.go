// Blob encoding for stored indexes.
//
// Format v1 stores the files map and the tags map as two separate gob blobs
// under the project's "index" bucket, next to a one-byte version key.
// Loading a blob written with another version fails rather than guessing.

package bbolt

import (
	"bytes"
	"encoding/gob"
)

// formatVersion is written under keyVersion on every save.
const formatVersion byte = 1

// encodeGob encodes a value using gob.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
