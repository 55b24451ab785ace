package manifest

import (
	"strings"
	"unicode"
)

// maxFilesPerCategory caps files returned for a category-name match.
const maxFilesPerCategory = 5

// Selection is a group of files picked for a question.
type Selection struct {
	CategoryName string   `json:"category_name"`
	CategoryPath string   `json:"category_path"`
	Files        []string `json:"files"`
}

// SelectFiles picks files relevant to a free-text question. A category
// matches when any word of the question occurs in its name; it contributes
// its first five files. If no category matches, individual files whose name
// contains a question word are returned, one group per file.
func (m *Manifest) SelectFiles(question string) []Selection {
	words := strings.Fields(foldTurkish(question))
	if len(words) == 0 {
		return nil
	}

	var selected []Selection
	for _, c := range m.Categories {
		if containsAny(foldTurkish(c.Name), words) {
			files := c.Files
			if len(files) > maxFilesPerCategory {
				files = files[:maxFilesPerCategory]
			}
			selected = append(selected, Selection{
				CategoryName: c.Name,
				CategoryPath: c.Key,
				Files:        append([]string(nil), files...),
			})
		}
	}
	if len(selected) > 0 {
		return selected
	}

	for _, c := range m.Categories {
		for _, file := range c.Files {
			if containsAny(foldTurkish(file), words) {
				selected = append(selected, Selection{
					CategoryName: c.Name,
					CategoryPath: c.Key,
					Files:        []string{file},
				})
			}
		}
	}
	return selected
}

// foldTurkish lowercases with Turkish casing rules (İ→i, I→ı).
func foldTurkish(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
