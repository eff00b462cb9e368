package manager

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Snapshots are deterministic CBOR wrapped in a zstd frame. Bucket contents
// are already JSON, so the CBOR layer only carries the bucket/id structure.
var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error

	snapshotEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("manager: CBOR encoder initialization failed: " + err.Error())
	}

	snapshotDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("manager: CBOR decoder initialization failed: " + err.Error())
	}
}

func encodeSnapshot(w io.Writer, s *ConfigSnapshot) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := snapshotEncMode.NewEncoder(zw).Encode(s); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(r io.Reader) (*ConfigSnapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var s ConfigSnapshot
	if err := snapshotDecMode.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
