package feed

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Durable records are framed as an 8-byte little-endian xxh3 checksum of the
// JSON body followed by the body. A torn or corrupted write fails the
// checksum on load and the record is treated as absent.

var errChecksumMismatch = errors.New("feed: snapshot checksum mismatch")

func encodeFramed(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	buf := make([]byte, 8+len(body))
	binary.LittleEndian.PutUint64(buf[:8], xxh3.Hash(body))
	copy(buf[8:], body)
	return buf, nil
}

func decodeFramed(data []byte, out any) error {
	if len(data) < 8 {
		return fmt.Errorf("decode snapshot: record too short (%d bytes)", len(data))
	}
	body := data[8:]
	if binary.LittleEndian.Uint64(data[:8]) != xxh3.Hash(body) {
		return errChecksumMismatch
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}
