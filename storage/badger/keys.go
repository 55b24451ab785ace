package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes
const (
	corpusActiveKey    = "corgen"
	corpusInfoKey      = "corinfo"
	corpusFragmentBase = "corfrag"
)

// makeGenerationValue encodes a corpus generation number.
func makeGenerationValue(gen uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, gen)
	return buf
}

// parseGenerationValue decodes a corpus generation number.
func parseGenerationValue(val []byte) (uint64, error) {
	if len(val) != 8 {
		return 0, fmt.Errorf("corpus generation: want 8 bytes, got %d", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

// makeFragmentPrefix generates the key prefix for all fragments of a generation.
// Format: prefix:generation:
func makeFragmentPrefix(gen uint64) []byte {
	prefix := []byte(corpusFragmentBase + ":")
	buf := make([]byte, len(prefix)+8+1)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], gen)
	buf[offset+8] = ':'
	return buf
}

// makeFragmentKey generates the key of one fragment.
// Format: prefix:generation:position
// BigEndian so lexicographic iteration yields position order.
func makeFragmentKey(gen uint64, position int) []byte {
	prefix := makeFragmentPrefix(gen)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}
