package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment *Fragment
		wantErr  error
	}{
		{
			name:     "valid fragment",
			fragment: &Fragment{Text: "Enflasyon %3 oldu.", Metadata: FragmentMetadata{SourceFilename: "tufe.xls"}},
			wantErr:  nil,
		},
		{
			name:     "nil fragment",
			fragment: nil,
			wantErr:  ErrInvalidFragment,
		},
		{
			name:     "blank text",
			fragment: &Fragment{Text: "   ", Metadata: FragmentMetadata{SourceFilename: "tufe.xls"}},
			wantErr:  ErrEmptyText,
		},
		{
			name:     "missing source",
			fragment: &Fragment{Text: "text"},
			wantErr:  ErrEmptySource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFragment(tt.fragment)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFragment() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFragment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		batch   *FragmentBatch
		wantErr error
	}{
		{
			name: "valid batch",
			batch: &FragmentBatch{
				Basename:  "a.xlsx",
				Fragments: []Fragment{NewFragment("x", "a.xlsx"), NewFragment("y", "a.xlsx")},
			},
		},
		{
			name:  "empty batch is valid",
			batch: &FragmentBatch{Basename: "a.xlsx"},
		},
		{
			name:    "nil batch",
			batch:   nil,
			wantErr: ErrInvalidBatch,
		},
		{
			name:    "missing basename",
			batch:   &FragmentBatch{},
			wantErr: ErrEmptyBasename,
		},
		{
			name: "fragment from another file",
			batch: &FragmentBatch{
				Basename:  "a.xlsx",
				Fragments: []Fragment{NewFragment("x", "b.xlsx")},
			},
			wantErr: ErrSourceMismatch,
		},
		{
			name: "invalid fragment",
			batch: &FragmentBatch{
				Basename:  "a.xlsx",
				Fragments: []Fragment{NewFragment("", "a.xlsx")},
			},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.batch)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateBatch() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateArtifactInfo(t *testing.T) {
	valid := func() *ArtifactInfo {
		return &ArtifactInfo{
			BuildID:   "5d7c1f5e-2f7a-4c1e-9c53-6a0f1b2c3d4e",
			Model:     "paraphrase-multilingual-mpnet-base-v2",
			Dimension: 768,
			Count:     2,
			Digest:    CorpusDigest([]Fragment{NewFragment("a", "a.xlsx")}),
			BuiltAt:   time.Now(),
		}
	}

	if err := ValidateArtifactInfo(valid()); err != nil {
		t.Fatalf("valid info rejected: %v", err)
	}

	mutations := map[string]func(*ArtifactInfo){
		"no build id":    func(i *ArtifactInfo) { i.BuildID = "" },
		"no model":       func(i *ArtifactInfo) { i.Model = "" },
		"zero dimension": func(i *ArtifactInfo) { i.Dimension = 0 },
		"negative count": func(i *ArtifactInfo) { i.Count = -1 },
		"short digest":   func(i *ArtifactInfo) { i.Digest = []byte{1, 2} },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			info := valid()
			mutate(info)
			if err := ValidateArtifactInfo(info); !errors.Is(err, ErrInvalidArtifactInfo) {
				t.Errorf("ValidateArtifactInfo() error = %v, want %v", err, ErrInvalidArtifactInfo)
			}
		})
	}

	if err := ValidateArtifactInfo(nil); !errors.Is(err, ErrInvalidArtifactInfo) {
		t.Errorf("nil info error = %v", err)
	}
}
