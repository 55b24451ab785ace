package core

import (
	"encoding/binary"
	"path/filepath"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// FragmentKindGeneratedDataPoint marks a fragment produced by the extraction
// oracle from one data point of a source table.
const FragmentKindGeneratedDataPoint = "generated_data_point"

// DigestSize is the byte length of a corpus digest.
const DigestSize = 32

// InputDescriptor identifies one source table on disk.
// Identity is the absolute path; the ledger keys entries by Basename.
type InputDescriptor struct {
	AbsolutePath string
	Category     string // display name, e.g. "Nüfus ve Demografi"
	CategoryKey  string // folder key, e.g. "nufus"
}

// Basename returns the file name used as the ledger key.
func (d InputDescriptor) Basename() string {
	return filepath.Base(d.AbsolutePath)
}

// FragmentMetadata carries provenance for a Fragment.
type FragmentMetadata struct {
	SourceFilename string
	FragmentKind   string
}

// Fragment is one self-contained sentence derived from a source table.
type Fragment struct {
	Text     string
	Metadata FragmentMetadata
}

// NewFragment returns a generated data point fragment for the given source file.
func NewFragment(text, sourceFilename string) Fragment {
	return Fragment{
		Text: text,
		Metadata: FragmentMetadata{
			SourceFilename: sourceFilename,
			FragmentKind:   FragmentKindGeneratedDataPoint,
		},
	}
}

// FragmentBatch is the unit written to the fragment checkpoint:
// every fragment extracted from one file, in extraction order.
type FragmentBatch struct {
	Basename  string
	Category  string
	Fragments []Fragment
}

// FailureRecord is one row of the failure log.
type FailureRecord struct {
	Timestamp    time.Time
	Category     string
	Filename     string
	ErrorMessage string
}

// ArtifactInfo describes a persisted index/corpus pair.
// Both halves carry the same BuildID, Model and Digest.
type ArtifactInfo struct {
	BuildID   string
	Model     string
	Dimension int
	Count     int
	Digest    []byte
	BuiltAt   time.Time
}

// RetrievalHit is one ranked fragment returned by a retrieval query.
type RetrievalHit struct {
	Position int
	Distance float32
	Fragment Fragment
}

// RetrievalResult is the assembled answer context for a query.
type RetrievalResult struct {
	Query   string
	Context string
	Sources []string
	Prompt  string
	Hits    []RetrievalHit
}

// FailureSummary is a failed file and its last recorded reason.
type FailureSummary struct {
	Filename string
	Category string
	Reason   string
}

// IndexStatus reports the persisted retrieval artifacts.
type IndexStatus struct {
	Available bool
	Reason    string
	Info      ArtifactInfo
}

// IngestStatus is the answer to an ingest-status query.
type IngestStatus struct {
	ManifestFiles       int
	Completed           int
	Failed              int
	Pending             int
	CheckpointBatches   int
	CheckpointFragments int
	Failures            []FailureSummary
	Index               IndexStatus
}

// CorpusDigest hashes the corpus contents in order with BLAKE2b-256.
// An index and a corpus built from the same fragments share the digest.
func CorpusDigest(fragments []Fragment) []byte {
	h, _ := blake2b.New(DigestSize, nil)
	var lenBuf [binary.MaxVarintLen64]byte
	write := func(s string) {
		n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:n])
		h.Write([]byte(s))
	}
	for _, f := range fragments {
		write(f.Text)
		write(f.Metadata.SourceFilename)
		write(f.Metadata.FragmentKind)
	}
	return h.Sum(nil)
}
