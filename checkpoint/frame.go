// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checkpoint

import (
	"bufio"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"math"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/storage"
)

// Frame layout: [len:uint32 LE][crc32:uint32 LE][payload].
const frameHeaderSize = 8

var errTornFrame = errors.New("torn frame")

// encodeFrame frames one mus-encoded batch.
func encodeFrame(batch *core.FragmentBatch) ([]byte, error) {
	payload := storage.MarshalFragmentBatch(batch)
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, ErrRecordTooLarge
	}
	buf := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[4:8], crc32.ChecksumIEEE(payload))
	copy(buf[frameHeaderSize:], payload)
	return buf, nil
}

// frameReader reads frames sequentially from a checkpoint of known size.
// offset is the end of the last valid frame.
type frameReader struct {
	r      *bufio.Reader
	size   int64
	offset int64
}

func newFrameReader(r io.Reader, size int64) *frameReader {
	return &frameReader{r: bufio.NewReaderSize(r, 64<<10), size: size}
}

// next returns the next batch. io.EOF marks a clean end and errTornFrame a
// short header or payload. Damaged records come back as *CorruptionError;
// tail reports whether the damaged record was the last one in the file.
func (fr *frameReader) next() (batch *core.FragmentBatch, tail bool, err error) {
	start := fr.offset
	remaining := fr.size - start

	if remaining == 0 {
		return nil, false, io.EOF
	}
	if remaining < frameHeaderSize {
		return nil, true, errTornFrame
	}

	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(fr.r, header[:]); err != nil {
		return nil, false, err
	}

	size := int64(binary.LittleEndian.Uint32(header[0:4]))
	sum := binary.LittleEndian.Uint32(header[4:8])
	if size > remaining-frameHeaderSize {
		return nil, true, errTornFrame
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return nil, false, err
	}
	end := start + frameHeaderSize + size
	tail = end == fr.size

	if crc32.ChecksumIEEE(payload) != sum {
		return nil, tail, &CorruptionError{Offset: start, Reason: "crc mismatch"}
	}

	batch, err = storage.UnmarshalFragmentBatch(payload)
	if err != nil {
		return nil, tail, &CorruptionError{Offset: start, Reason: err.Error()}
	}

	fr.offset = end
	return batch, tail, nil
}
