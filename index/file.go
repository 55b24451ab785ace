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

package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/klauspost/compress/zstd"
)

const (
	// Magic identifies index files.
	Magic = "TUIKVIDX"

	// Version is the current file format version.
	Version = 1

	// FlagZstd marks a zstd-compressed vector payload.
	FlagZstd uint16 = 1 << 0
)

// header is the fixed and variable part that precedes the payload.
//
// Layout, little endian:
//
//	magic[8] version:u16 flags:u16 dim:u32 count:u64 builtAt:i64
//	model:(u16 len + bytes) buildID:(u16 len + bytes) digest:(u16 len + bytes)
//	payloadLen:u64 crc32:u32
//
// The CRC covers every header byte before it and the uncompressed payload.
type header struct {
	Version    uint16
	Flags      uint16
	Dim        uint32
	Count      uint64
	BuiltAt    int64
	Model      string
	BuildID    string
	Digest     []byte
	PayloadLen uint64
	Checksum   uint32
}

func (h *header) info() *core.ArtifactInfo {
	return &core.ArtifactInfo{
		BuildID:   h.BuildID,
		Model:     h.Model,
		Dimension: int(h.Dim),
		Count:     int(h.Count),
		Digest:    h.Digest,
		BuiltAt:   time.Unix(0, h.BuiltAt).UTC(),
	}
}

// encode returns the header bytes up to, not including, the CRC.
func (h *header) encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	binary.Write(&buf, binary.LittleEndian, h.Version)
	binary.Write(&buf, binary.LittleEndian, h.Flags)
	binary.Write(&buf, binary.LittleEndian, h.Dim)
	binary.Write(&buf, binary.LittleEndian, h.Count)
	binary.Write(&buf, binary.LittleEndian, h.BuiltAt)
	writeString(&buf, []byte(h.Model))
	writeString(&buf, []byte(h.BuildID))
	writeString(&buf, h.Digest)
	binary.Write(&buf, binary.LittleEndian, h.PayloadLen)
	return buf.Bytes()
}

func writeString(buf *bytes.Buffer, s []byte) {
	binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.Write(s)
}

// readHeader parses a header and returns it with its raw bytes (without
// the CRC) for checksum verification.
func readHeader(r io.Reader) (*header, []byte, error) {
	var raw bytes.Buffer
	tee := io.TeeReader(r, &raw)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(tee, magic); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if string(magic) != Magic {
		return nil, nil, ErrInvalidMagic
	}

	h := &header{}
	fixed := []any{&h.Version, &h.Flags, &h.Dim, &h.Count, &h.BuiltAt}
	for _, field := range fixed {
		if err := binary.Read(tee, binary.LittleEndian, field); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		}
	}
	if h.Version != Version {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}

	var model, buildID []byte
	for _, dst := range []*[]byte{&model, &buildID, &h.Digest} {
		var n uint16
		if err := binary.Read(tee, binary.LittleEndian, &n); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		}
		*dst = make([]byte, n)
		if _, err := io.ReadFull(tee, *dst); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		}
	}
	h.Model = string(model)
	h.BuildID = string(buildID)

	if err := binary.Read(tee, binary.LittleEndian, &h.PayloadLen); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Checksum); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	return h, raw.Bytes(), nil
}

// Save writes idx and its descriptor to path atomically: the file is
// written to a temporary sibling, synced and renamed into place.
func Save(path string, idx *Flat, info core.ArtifactInfo) error {
	if err := core.ValidateArtifactInfo(&info); err != nil {
		return err
	}
	if info.Dimension != idx.dim || info.Count != idx.count {
		return fmt.Errorf("%w: descriptor says %dx%d, index is %dx%d",
			core.ErrInvalidArtifactInfo, info.Count, info.Dimension, idx.count, idx.dim)
	}
	if len(info.Model) > math.MaxUint16 || len(info.BuildID) > math.MaxUint16 || len(info.Digest) > math.MaxUint16 {
		return fmt.Errorf("%w: descriptor field too long", core.ErrInvalidArtifactInfo)
	}

	payload := encodeVectors(idx.data)
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(payload, nil)
	enc.Close()

	h := &header{
		Version:    Version,
		Flags:      FlagZstd,
		Dim:        uint32(idx.dim),
		Count:      uint64(idx.count),
		BuiltAt:    info.BuiltAt.UnixNano(),
		Model:      info.Model,
		BuildID:    info.BuildID,
		Digest:     info.Digest,
		PayloadLen: uint64(len(compressed)),
	}
	raw := h.encode()
	crc := crc32.NewIEEE()
	crc.Write(raw)
	crc.Write(payload)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	w.Write(raw)
	binary.Write(w, binary.LittleEndian, crc.Sum32())
	w.Write(compressed)
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write index file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to install index file: %w", err)
	}
	return nil
}

// Load reads an index file and verifies its checksum.
func Load(path string) (*Flat, *core.ArtifactInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	h, raw, err := readHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if h.Dim == 0 || h.Count == 0 {
		return nil, nil, fmt.Errorf("%w: empty index", ErrCorruptIndex)
	}

	compressed, err := io.ReadAll(io.LimitReader(r, int64(h.PayloadLen)+1))
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(compressed)) != h.PayloadLen {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorruptIndex, len(compressed), h.PayloadLen)
	}

	payload := compressed
	if h.Flags&FlagZstd != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, nil, err
		}
		payload, err = dec.DecodeAll(compressed, nil)
		dec.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		}
	}

	crc := crc32.NewIEEE()
	crc.Write(raw)
	crc.Write(payload)
	if crc.Sum32() != h.Checksum {
		return nil, nil, ErrChecksum
	}

	want := uint64(h.Dim) * h.Count * 4
	if uint64(len(payload)) != want {
		return nil, nil, fmt.Errorf("%w: payload has %d bytes, want %d", ErrCorruptIndex, len(payload), want)
	}

	return fromData(int(h.Dim), int(h.Count), decodeVectors(payload)), h.info(), nil
}

// ReadInfo reads only the descriptor of an index file.
func ReadInfo(path string) (*core.ArtifactInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, _, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	return h.info(), nil
}

func encodeVectors(data []float32) []byte {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVectors(buf []byte) []float32 {
	data := make([]float32, len(buf)/4)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return data
}
