package models

type LangCode string

const (
	LangEN LangCode = "en"
	LangFR LangCode = "fr"
	LangZH LangCode = "zh"
)

// BaseLang is the fallback for unknown or missing preferences.
const BaseLang = LangEN

// LangOrder fixes the grouping order of outbound per-language batches.
var LangOrder = []LangCode{LangEN, LangFR, LangZH}

func (l LangCode) IsKnown() bool {
	for _, known := range LangOrder {
		if l == known {
			return true
		}
	}
	return false
}
