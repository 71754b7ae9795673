package textproc

// slangDictionary maps Indonesian informal spellings to their standard form.
var slangDictionary = map[string]string{
	"wkwkwkkwkw": "tertawa",
	"wkwk":       "tertawa",
	"wkwkwk":     "tertawa",
	"elu":        "kamu",
	"lu":         "kamu",
	"gue":        "saya",
	"gw":         "saya",
	"skrng":      "sekarang",
	"skrg":       "sekarang",
	"banyk":      "banyak",
	"bgt":        "banget",
	"kalo":       "kalau",
	"klo":        "kalau",
	"yg":         "yang",
	"mo":         "mau",
	"brapa":      "berapa",
	"ga":         "tidak",
	"gak":        "tidak",
	"nggak":      "tidak",
	"engga":      "tidak",
	"tdk":        "tidak",
	"udah":       "sudah",
	"udh":        "sudah",
	"lg":         "lagi",
	"dgn":        "dengan",
	"utk":        "untuk",
	"krn":        "karena",
	"sm":         "sama",
	"aja":        "saja",
	"kuy":        "yuk",
	"santuy":     "santai",
	"bngt":       "banget",
	"jg":         "juga",
	"org":        "orang",
	"tp":         "tapi",
	"dr":         "dari",
	"blm":        "belum",
	"bs":         "bisa",
}

// NormalizeSlang replaces known slang tokens in place and returns the slice.
func NormalizeSlang(tokens []string) []string {
	for i, token := range tokens {
		if standard, ok := slangDictionary[token]; ok {
			tokens[i] = standard
		}
	}
	return tokens
}
