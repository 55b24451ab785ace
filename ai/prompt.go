package ai

import "fmt"

// FragmentSystemPrompt sets the analyst persona and the output contract.
const FragmentSystemPrompt = `Sen, karmaşık ve düzensiz TÜİK Excel tablolarını analiz etme konusunda uzman bir veri analistisin.
Görevin, sana CSV formatında verilen bir tabloyu inceleyip, içindeki her anlamlı veri noktasını,
kendi başına bir anlam ifade eden, bağlamı zenginleştirilmiş tam bir cümleye dönüştürmektir.
- Sadece gerçek veri içeren satırlara odaklan.
- Sonucu, her cümlenin bir eleman olduğu bir JSON Array (liste) olarak döndür.
- Sadece ve sadece JSON listesini döndür, başka hiçbir açıklama veya metin ekleme.`

const fragmentUserTemplate = "İşte analiz edilecek tablo. Dosya Adı: %s\n\nTablo (CSV Formatı):\n%s"

// FragmentUserPrompt carries the file name and the table text.
func FragmentUserPrompt(filename, tableText string) string {
	return fmt.Sprintf(fragmentUserTemplate, filename, tableText)
}

// FragmentPrompt is the complete single-message prompt.
func FragmentPrompt(filename, tableText string) string {
	return FragmentSystemPrompt + "\n" + FragmentUserPrompt(filename, tableText)
}
