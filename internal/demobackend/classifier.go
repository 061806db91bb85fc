package demobackend

import (
	"strings"

	"github.com/raysh454/fraudeye/internal/model"
)

// ModelVersion identifies the scorer in responses and scan metadata.
const ModelVersion = "simple-rule-based-v1"

var fakeIndicators = []string{
	"you won't believe",
	"shocking",
	"miracle cure",
	"earn money fast",
	"click here",
	"100% guaranteed",
	"secret method",
}

var realIndicators = []string{
	"according to",
	"researchers",
	"reported by",
	"official statement",
	"confirmed by",
	"study shows",
	"data from",
}

// Prediction is the scorer's verdict on one piece of text.
type Prediction struct {
	Label            model.Label `json:"label"`
	CredibilityScore int         `json:"credibilityScore"`
	Explanation      []string    `json:"explanation"`
	ModelVersion     string      `json:"modelVersion"`
}

// Classify is a keyword scorer standing in for the ML service. Fake
// indicators take precedence over real ones.
func Classify(text string) Prediction {
	lower := strings.ToLower(text)
	p := Prediction{
		Label:            model.LabelUncertain,
		CredibilityScore: 50,
		ModelVersion:     ModelVersion,
	}

	switch {
	case containsAny(lower, fakeIndicators):
		p.Label = model.LabelFake
		p.CredibilityScore = 20
		p.Explanation = []string{"Detected clickbait / scam-like phrases."}
	case containsAny(lower, realIndicators):
		p.Label = model.LabelReal
		p.CredibilityScore = 80
		p.Explanation = []string{"Detected research/official-style wording."}
	default:
		p.Explanation = []string{"No strong indicators found; marked as uncertain."}
	}
	return p
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
