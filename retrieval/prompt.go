package retrieval

import (
	"fmt"
	"strings"
)

// ContextSeparator joins fragment texts in the context block.
const ContextSeparator = "\n\n---\n\n"

// promptTemplate takes the context, the source list and the question.
const promptTemplate = `Sen TÜİK istatistiklerini yorumlayan bir veri analistisin.
Aşağıdaki bağlam, resmi TÜİK tablolarından çıkarılmış cümlelerden oluşur.
Soruyu yalnızca bu bağlama dayanarak yanıtla. Bağlamda cevap yoksa bunu açıkça söyle.
Cevabının sonunda kullandığın kaynak dosyaları belirt.

BAĞLAM:
%s

KAYNAKLAR:
%s

SORU:
%s
`

// BuildPrompt fills the fixed answer template.
func BuildPrompt(context string, sources []string, query string) string {
	list := "-"
	if len(sources) > 0 {
		list = "- " + strings.Join(sources, "\n- ")
	}
	return fmt.Sprintf(promptTemplate, context, list, query)
}
