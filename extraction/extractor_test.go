package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/ai/mock"
	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTable(t *testing.T, name string, rows int) core.InputDescriptor {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := 1; i <= rows; i++ {
		require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("A%d", i), fmt.Sprintf("Yıl %d", 2000+i)))
		require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("B%d", i), i*100))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return core.InputDescriptor{AbsolutePath: path, Category: "Nüfus ve Demografi", CategoryKey: "nufus"}
}

func newTestExtractor(t *testing.T, oracle ai.FragmentExtractor) *Extractor {
	t.Helper()
	e, err := NewExtractor(oracle, WithBaseDelay(time.Millisecond))
	require.NoError(t, err)
	return e
}

func TestNewExtractor_RequiresOracle(t *testing.T) {
	_, err := NewExtractor(nil)
	assert.ErrorIs(t, err, ErrOracleRequired)
}

func TestExtract_Success(t *testing.T) {
	desc := writeTable(t, "nufus.xlsx", 3)
	oracle := mock.NewMockFragmentExtractor()
	oracle.ExtractFragmentsFunc = func(ctx context.Context, tableText, filename string) ([]string, error) {
		assert.Equal(t, "nufus.xlsx", filename)
		assert.Contains(t, tableText, "Yıl 2001,100")
		return []string{"2001 yılında değer 100'dür.", "  ", " 2002 yılında değer 200'dür.\n", ""}, nil
	}

	fragments, err := newTestExtractor(t, oracle).Extract(context.Background(), desc)
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, "2001 yılında değer 100'dür.", fragments[0].Text)
	assert.Equal(t, "2002 yılında değer 200'dür.", fragments[1].Text)
	assert.Equal(t, "nufus.xlsx", fragments[0].Metadata.SourceFilename)
	assert.Equal(t, core.FragmentKindGeneratedDataPoint, fragments[1].Metadata.FragmentKind)
	assert.Equal(t, 1, oracle.CallCount())
}

func TestExtract_TruncatesTableText(t *testing.T) {
	for _, tc := range []struct {
		rows, want int
	}{
		{table.DefaultMaxLines, table.DefaultMaxLines},
		{table.DefaultMaxLines + 1, table.DefaultMaxLines},
	} {
		t.Run(fmt.Sprint(tc.rows), func(t *testing.T) {
			desc := writeTable(t, "uzun.xlsx", tc.rows)
			var lines int
			oracle := mock.NewMockFragmentExtractor()
			oracle.ExtractFragmentsFunc = func(ctx context.Context, tableText, filename string) ([]string, error) {
				lines = len(strings.Split(strings.TrimSuffix(tableText, "\n"), "\n"))
				return []string{"x"}, nil
			}

			_, err := newTestExtractor(t, oracle).Extract(context.Background(), desc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, lines)
		})
	}
}

func TestExtract_RetriesThenSucceeds(t *testing.T) {
	desc := writeTable(t, "a.xlsx", 2)
	oracle := mock.NewMockFragmentExtractor()
	calls := 0
	oracle.ExtractFragmentsFunc = func(ctx context.Context, tableText, filename string) ([]string, error) {
		calls++
		if calls < 3 {
			return nil, ai.ErrMalformedOutput
		}
		return []string{"ok"}, nil
	}

	fragments, err := newTestExtractor(t, oracle).Extract(context.Background(), desc)
	require.NoError(t, err)
	assert.Len(t, fragments, 1)
	assert.Equal(t, 3, oracle.CallCount())
}

func TestExtract_PermanentFailureCallsOracleThreeTimes(t *testing.T) {
	desc := writeTable(t, "b.xlsx", 2)
	oracle := mock.NewMockFragmentExtractor()
	oracle.ExtractFragmentsFunc = func(ctx context.Context, tableText, filename string) ([]string, error) {
		return nil, &ai.BlockedError{Reason: "SAFETY"}
	}

	_, err := newTestExtractor(t, oracle).Extract(context.Background(), desc)
	require.Error(t, err)
	assert.Equal(t, 3, oracle.CallCount())

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "b.xlsx", extractionErr.Basename)
	assert.Equal(t, 3, extractionErr.Attempts)
	assert.ErrorIs(t, err, ai.ErrBlocked)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestExtract_TableErrorsAreNotRetried(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bozuk.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

	oracle := mock.NewMockFragmentExtractor()
	_, err := newTestExtractor(t, oracle).Extract(context.Background(), core.InputDescriptor{AbsolutePath: path})
	require.Error(t, err)
	assert.Equal(t, 0, oracle.CallCount())

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Zero(t, extractionErr.Attempts)
	assert.ErrorIs(t, err, table.ErrUnreadable)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notlar.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := newTestExtractor(t, mock.NewMockFragmentExtractor()).Extract(context.Background(), core.InputDescriptor{AbsolutePath: path})
	assert.ErrorIs(t, err, table.ErrUnsupportedFormat)
}

func TestExtract_CanceledDuringBackoff(t *testing.T) {
	desc := writeTable(t, "c.xlsx", 2)
	ctx, cancel := context.WithCancel(context.Background())
	oracle := mock.NewMockFragmentExtractor()
	oracle.ExtractFragmentsFunc = func(ctx context.Context, tableText, filename string) ([]string, error) {
		cancel()
		return nil, errors.New("quota exceeded")
	}

	e, err := NewExtractor(oracle, WithBaseDelay(time.Hour))
	require.NoError(t, err)

	_, err = e.Extract(ctx, desc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, oracle.CallCount())
}

func TestExtractionError_Message(t *testing.T) {
	err := &ExtractionError{Basename: "a.xls", Attempts: 3, Err: ai.ErrEmptyResponse}
	assert.Equal(t, "a.xls: failed after 3 attempts: "+ai.ErrEmptyResponse.Error(), err.Error())
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}
