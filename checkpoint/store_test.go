package checkpoint

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(dir, name, category string) core.InputDescriptor {
	return core.InputDescriptor{
		AbsolutePath: filepath.Join(dir, name),
		Category:     category,
	}
}

func fragments(basename string, texts ...string) []core.Fragment {
	out := make([]core.Fragment, len(texts))
	for i, t := range texts {
		out[i] = core.NewFragment(t, basename)
	}
	return out
}

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func appendBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestOpen_Empty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	s := openStore(t, dir)

	assert.Empty(t, s.Completed())
	assert.Empty(t, s.Failures())
	assert.Equal(t, Stats{}, s.Stats())

	corpus, err := s.LoadCorpus()
	require.NoError(t, err)
	assert.Empty(t, corpus)

	_, err = os.Stat(filepath.Join(dir, FailureLogName))
	assert.True(t, errors.Is(err, os.ErrNotExist), "failure log is created lazily")
}

func TestRecordSuccess_PersistsInCommitOrder(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	require.NoError(t, s.RecordSuccess(desc("/data", "b.xlsx", "Tarım"), fragments("b.xlsx", "b1", "b2")))
	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "a1")))
	require.NoError(t, s.RecordSuccess(desc("/data", "bos.xls", "Nüfus"), nil))
	require.NoError(t, s.Close())

	s = openStore(t, dir)
	assert.Equal(t, []string{"b.xlsx", "a.xlsx", "bos.xls"}, s.Completed())
	assert.True(t, s.IsCompleted("a.xlsx"))
	assert.False(t, s.IsCompleted("c.xlsx"))
	assert.Equal(t, Stats{Batches: 3, Fragments: 3}, s.Stats())

	corpus, err := s.LoadCorpus()
	require.NoError(t, err)
	texts := make([]string, len(corpus))
	for i, f := range corpus {
		texts[i] = f.Text
	}
	assert.Equal(t, []string{"b1", "b2", "a1"}, texts)
	assert.Equal(t, "b.xlsx", corpus[0].Metadata.SourceFilename)

	data, err := os.ReadFile(filepath.Join(dir, CompletedLogName))
	require.NoError(t, err)
	assert.Equal(t, "b.xlsx\na.xlsx\nbos.xls\n", string(data))
}

func TestRecordSuccess_RejectsForeignFragments(t *testing.T) {
	s := openStore(t, t.TempDir())

	err := s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("other.xlsx", "x"))
	assert.ErrorIs(t, err, core.ErrInvalidBatch)
	assert.Empty(t, s.Completed())
	assert.Equal(t, Stats{}, s.Stats())
}

func TestRecordSuccess_ReprocessedFileKeepsLatestBatch(t *testing.T) {
	s := openStore(t, t.TempDir())

	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "old")))
	require.NoError(t, s.RecordSuccess(desc("/data", "b.xlsx", "Nüfus"), fragments("b.xlsx", "b")))
	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "new")))

	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, s.Completed())

	corpus, err := s.LoadCorpus()
	require.NoError(t, err)
	require.Len(t, corpus, 2)
	assert.Equal(t, "b", corpus[0].Text)
	assert.Equal(t, "new", corpus[1].Text)
}

func TestRecordFailure_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	s, err := Open(dir, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	require.NoError(t, s.RecordFailure(desc("/data", "b.xlsx", "Enflasyon ve Fiyat"), errors.New("model said: \"no\", twice")))
	require.NoError(t, s.RecordFailure(desc("/data", "c.xls", "Tarım"), nil))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(dir, FailureLogName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,category,filename,error_message", lines[0])
	assert.Equal(t, `2024-03-09 14:05:07,Enflasyon ve Fiyat,b.xlsx,"model said: ""no"", twice"`, lines[1])

	s = openStore(t, dir)
	failures := s.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "Enflasyon ve Fiyat", failures["b.xlsx"].Category)
	assert.Equal(t, `model said: "no", twice`, failures["b.xlsx"].ErrorMessage)
	assert.True(t, clock.Equal(failures["b.xlsx"].Timestamp))
	assert.Equal(t, "unknown error", failures["c.xls"].ErrorMessage)
}

func TestResetFailures(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	require.NoError(t, s.ResetFailures(), "no log yet")
	require.NoError(t, s.RecordFailure(desc("/data", "b.xlsx", "Tarım"), errors.New("boom")))
	require.NoError(t, s.ResetFailures())

	assert.Empty(t, s.Failures())
	_, err := os.Stat(filepath.Join(dir, FailureLogName))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// A new pass starts a fresh log with a header.
	require.NoError(t, s.RecordFailure(desc("/data", "b.xlsx", "Tarım"), errors.New("again")))
	data, err := os.ReadFile(filepath.Join(dir, FailureLogName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "timestamp,"))
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestOpen_TruncatesTornTail(t *testing.T) {
	for name, tail := range map[string][]byte{
		"short header":  {0x10, 0x00, 0x00},
		"short payload": {0x40, 0x00, 0x00, 0x00, 0xde, 0xad, 0xbe, 0xef, 0x01},
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := openStore(t, dir)
			require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "a1", "a2")))
			require.NoError(t, s.Close())

			path := filepath.Join(dir, CheckpointName)
			good := fileSize(t, path)
			appendBytes(t, path, tail)

			s = openStore(t, dir)
			assert.Equal(t, good, fileSize(t, path))
			assert.Equal(t, Stats{Batches: 1, Fragments: 2}, s.Stats())

			// appends continue after the repaired tail
			require.NoError(t, s.RecordSuccess(desc("/data", "b.xlsx", "Nüfus"), fragments("b.xlsx", "b1")))
			corpus, err := s.LoadCorpus()
			require.NoError(t, err)
			assert.Len(t, corpus, 3)
		})
	}
}

func TestOpen_TruncatesTailWithBadChecksum(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "a1")))
	require.NoError(t, s.Close())

	path := filepath.Join(dir, CheckpointName)
	good := fileSize(t, path)

	frame, err := encodeFrame(&core.FragmentBatch{Basename: "b.xlsx", Fragments: fragments("b.xlsx", "b1")})
	require.NoError(t, err)
	frame[len(frame)-1] ^= 0xff
	appendBytes(t, path, frame)

	s = openStore(t, dir)
	assert.Equal(t, good, fileSize(t, path))
	assert.Equal(t, []string{"a.xlsx"}, s.Completed())
}

func TestOpen_MidStreamCorruption(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "a1")))
	require.NoError(t, s.RecordSuccess(desc("/data", "b.xlsx", "Nüfus"), fragments("b.xlsx", "b1")))
	require.NoError(t, s.Close())

	path := filepath.Join(dir, CheckpointName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// flip a byte inside the first payload
	data[frameHeaderSize+1] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Open(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptCheckpoint)

	var corrupt *CorruptionError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, int64(0), corrupt.Offset)
	assert.Equal(t, path, corrupt.Path)
}

func TestOpen_DamagedLengthBeforeCommittedBatches(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	for _, name := range []string{"a.xlsx", "b.xlsx", "c.xlsx"} {
		require.NoError(t, s.RecordSuccess(desc("/data", name, "Nüfus"), fragments(name, name+" satır")))
	}
	require.NoError(t, s.Close())

	path := filepath.Join(dir, CheckpointName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	size := fileSize(t, path)

	// b's length now points past the end of the file
	first := int64(frameHeaderSize) + int64(binary.LittleEndian.Uint32(data[0:4]))
	binary.LittleEndian.PutUint32(data[first:first+4], 1<<30)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Open(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptCheckpoint)

	var corrupt *CorruptionError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, first, corrupt.Offset)
	assert.Contains(t, corrupt.Reason, "b.xlsx")

	// nothing was truncated
	assert.Equal(t, size, fileSize(t, path))
}

func TestOpen_TornTailOfReprocessedFile(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "a1")))
	require.NoError(t, s.Close())

	// a second batch for a.xlsx torn by a crash
	frame, err := encodeFrame(&core.FragmentBatch{Basename: "a.xlsx", Fragments: fragments("a.xlsx", "a2")})
	require.NoError(t, err)
	path := filepath.Join(dir, CheckpointName)
	good := fileSize(t, path)
	appendBytes(t, path, frame[:len(frame)-2])

	s = openStore(t, dir)
	assert.Equal(t, good, fileSize(t, path))
	corpus, err := s.LoadCorpus()
	require.NoError(t, err)
	assert.Equal(t, fragments("a.xlsx", "a1"), corpus)
}

func TestOpen_TerminatesCompletedLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, CompletedLogName)
	require.NoError(t, os.WriteFile(logPath, []byte("legacy.xlsx"), 0644))

	s := openStore(t, dir)
	require.NoError(t, s.RecordSuccess(desc("/data", "b.xlsx", "Nüfus"), fragments("b.xlsx", "b1")))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "legacy.xlsx\nb.xlsx\n", string(data))

	s = openStore(t, dir)
	assert.True(t, s.IsCompleted("legacy.xlsx"))
	assert.True(t, s.IsCompleted("b.xlsx"))
	assert.Equal(t, []string{"legacy.xlsx", "b.xlsx"}, s.Completed())
}

func TestOpen_BackfillsCompletedEntries(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	require.NoError(t, s.RecordSuccess(desc("/data", "a.xlsx", "Nüfus"), fragments("a.xlsx", "a1")))
	require.NoError(t, s.Close())

	// Crash after the batch was synced but before the completed entry.
	frame, err := encodeFrame(&core.FragmentBatch{Basename: "b.xlsx", Category: "Tarım", Fragments: fragments("b.xlsx", "b1")})
	require.NoError(t, err)
	appendBytes(t, filepath.Join(dir, CheckpointName), frame)

	s = openStore(t, dir)
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, s.Completed())

	data, err := os.ReadFile(filepath.Join(dir, CompletedLogName))
	require.NoError(t, err)
	assert.Equal(t, "a.xlsx\nb.xlsx\n", string(data))
}

func TestEncodeFrame_Layout(t *testing.T) {
	frame, err := encodeFrame(&core.FragmentBatch{Basename: "a.xlsx"})
	require.NoError(t, err)
	size := binary.LittleEndian.Uint32(frame[0:4])
	assert.Equal(t, len(frame)-frameHeaderSize, int(size))
}

func TestStore_Closed(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	assert.ErrorIs(t, s.RecordSuccess(desc("/data", "a.xlsx", "x"), nil), ErrStoreClosed)
	assert.ErrorIs(t, s.RecordFailure(desc("/data", "a.xlsx", "x"), errors.New("x")), ErrStoreClosed)
	assert.ErrorIs(t, s.ResetFailures(), ErrStoreClosed)
	_, err = s.LoadCorpus()
	assert.ErrorIs(t, err, ErrStoreClosed)
}
