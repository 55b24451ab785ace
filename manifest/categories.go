package manifest

// CategoryFolder pairs a TÜİK subject heading with its data folder.
type CategoryFolder struct {
	Name string
	Key  string
}

// DefaultCategories are the TÜİK subject headings scanned by Scan, in the
// order they appear on the portal.
var DefaultCategories = []CategoryFolder{
	{"Adalet ve Seçim", "adalet"},
	{"Bilim, Teknoloji ve Bilgi Toplumu", "bilim"},
	{"Çevre ve Enerji", "cevre"},
	{"Dış Ticaret", "dis_ticaret"},
	{"Eğitim, Kültür, Spor ve Turizm", "egitim"},
	{"Ekonomik Güven", "ekonomik_guven"},
	{"Enflasyon ve Fiyat", "enflasyon"},
	{"Gelir, Yaşam, Tüketim ve Yoksulluk", "gelir"},
	{"İnşaat ve Konut", "konut"},
	{"İstihdam, İşsizlik ve Ücret", "istihdam"},
	{"Nüfus ve Demografi", "nufus"},
	{"Sağlık ve Sosyal Koruma", "saglik"},
	{"Sanayi", "sanayi"},
	{"Tarım", "tarim"},
	{"Ticaret ve Hizmet", "ticaret"},
	{"Ulaştırma ve Haberleşme", "ulastirma"},
	{"Ulusal Hesaplar", "ulusal"},
}
