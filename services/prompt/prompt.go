package prompt

import (
	"strings"

	"studybuddy/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const (
	ModeGeneral    = "umum"
	ModeMath       = "Matematika"
	ModeScience    = "IPA"
	ModeIndonesian = "Bahasa Indonesia"
	ModeEnglish    = "Bahasa Inggris"

	DefaultMode = ModeGeneral

	DefaultPrompt = "Kamu adalah asisten belajar."

	questionSeparator = "\n\nPertanyaan siswa: "
)

var modeOrder = []string{ModeGeneral, ModeMath, ModeScience, ModeIndonesian, ModeEnglish}

var basePrompts = map[string]string{
	ModeGeneral:    "Kamu adalah asisten belajar ramah. Jawablah dengan sederhana.",
	ModeMath:       "Kamu adalah guru Matematika. Selalu jelaskan langkah-langkah dengan rumus.",
	ModeScience:    "Kamu adalah guru IPA. Jelaskan konsep dengan contoh sehari-hari.",
	ModeIndonesian: "Kamu adalah guru Bahasa Indonesia. Koreksi tata bahasa dengan baik.",
	ModeEnglish:    "You are an English teacher. Answer in simple English, then give the Indonesian translation below.",
}

// BasePrompt returns the instruction for mode, or DefaultPrompt for labels
// outside the table. Matching is exact.
func BasePrompt(mode string) string {
	if p, ok := basePrompts[mode]; ok {
		return p
	}
	return DefaultPrompt
}

func IsKnown(mode string) bool {
	_, ok := basePrompts[mode]
	return ok
}

// FullPrompt is the text sent upstream for one student question.
func FullPrompt(mode, question string) string {
	return BasePrompt(mode) + questionSeparator + question
}

// Modes lists the selectable labels in display order.
func Modes() []string {
	out := make([]string, len(modeOrder))
	copy(out, modeOrder)
	return out
}

func ModeInfos() []models.ModeInfo {
	return lo.Map(modeOrder, func(mode string, _ int) models.ModeInfo {
		return models.ModeInfo{
			Label:   mode,
			Prompt:  basePrompts[mode],
			Default: mode == DefaultMode,
		}
	})
}

// SearchModes filters the mode list for the settings selector, tolerating
// partial and out-of-order-case input ("mat", "inggris").
func SearchModes(query string) []models.ModeInfo {
	query = strings.TrimSpace(query)
	if query == "" {
		return ModeInfos()
	}

	matches := fuzzy.FindNormalizedFold(query, modeOrder)
	return lo.Filter(ModeInfos(), func(info models.ModeInfo, _ int) bool {
		return lo.Contains(matches, info.Label)
	})
}
