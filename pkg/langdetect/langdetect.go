// Package langdetect classifies transcript text into the languages the
// assistant can answer in. Classification is deterministic and side-effect
// free so session behavior is reproducible in tests.
package langdetect

import (
	"strings"
	"unicode"
)

// Language is a supported language tag.
type Language string

const (
	English Language = "english"
	Hindi   Language = "hindi"
	Marathi Language = "marathi"
)

// Default is the baseline language assumed before any classification.
const Default = English

// devanagariRatioThreshold gates the Hindi/Marathi disambiguation step.
// The cutoff is a tuned constant; keep it in sync with the tests.
const devanagariRatioThreshold = 0.3

// Marathi and Hindi share the Devanagari script, so script ratio alone
// cannot separate them. Frequent function words do.
var marathiIndicators = []string{
	"आहे", "आपल", "त्या", "मी", "तू", "काय", "कसे", "कुठे", "केव्हा", "कोण",
	"मला", "तुला", "त्याला", "तिला", "आम्हा", "तुम्हा", "त्यांना",
	"करत", "येत", "जात", "होत", "पाहिजे", "शकत", "लागत", "आहेत", "होते",
}

var hindiIndicators = []string{
	"है", "हैं", "हूं", "हूँ", "में", "को", "से", "का", "की", "के", "पर", "और",
	"या", "तो", "जो", "वो", "यह", "वह", "मैं", "तुम", "आप", "वे", "हम",
	"कैसे", "क्या", "कहाँ", "कब", "कौन", "कितना", "क्यों", "होता", "होती",
}

// Detect returns the language of text based on script ratio and common
// function words. Empty or non-alphabetic input yields the default language.
func Detect(text string) Language {
	if strings.TrimSpace(text) == "" {
		return Default
	}

	var devanagari, alphabetic int
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			devanagari++
		}
		if unicode.IsLetter(r) {
			alphabetic++
		}
	}
	if alphabetic == 0 {
		return Default
	}

	if float64(devanagari)/float64(alphabetic) > devanagariRatioThreshold {
		marathiScore := scoreIndicators(text, marathiIndicators)
		hindiScore := scoreIndicators(text, hindiIndicators)
		// Ties resolve to Hindi.
		if marathiScore > hindiScore {
			return Marathi
		}
		return Hindi
	}

	return English
}

func scoreIndicators(text string, words []string) int {
	score := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			score++
		}
	}
	return score
}
