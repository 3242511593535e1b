package counting

import "strings"

// variants maps a chant word to alternate spacings the recognizer commonly
// produces for the same utterance.
var variants = map[string]string{
	"관세음보살": "관세음 보살",
	"아미타불":  "아미타 불",
	"지장보살":  "지장 보살",
}

// KeywordsFor returns the keyword set to listen for while chanting label:
// the label itself plus known recognizer spacing variants of any chant word
// it contains. Custom labels get no variants.
func KeywordsFor(label string) []string {
	keywords := []string{label}
	for base, alt := range variants {
		if strings.Contains(label, base) {
			keywords = append(keywords, alt)
		}
	}
	return keywords
}
