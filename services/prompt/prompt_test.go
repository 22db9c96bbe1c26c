package prompt

import (
	"testing"

	"studybuddy/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestBasePrompt(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		expected string
	}{
		{
			name:     "general",
			mode:     "umum",
			expected: "Kamu adalah asisten belajar ramah. Jawablah dengan sederhana.",
		},
		{
			name:     "math",
			mode:     "Matematika",
			expected: "Kamu adalah guru Matematika. Selalu jelaskan langkah-langkah dengan rumus.",
		},
		{
			name:     "science",
			mode:     "IPA",
			expected: "Kamu adalah guru IPA. Jelaskan konsep dengan contoh sehari-hari.",
		},
		{
			name:     "indonesian",
			mode:     "Bahasa Indonesia",
			expected: "Kamu adalah guru Bahasa Indonesia. Koreksi tata bahasa dengan baik.",
		},
		{
			name:     "english",
			mode:     "Bahasa Inggris",
			expected: "You are an English teacher. Answer in simple English, then give the Indonesian translation below.",
		},
		{
			name:     "unknown label",
			mode:     "Sejarah",
			expected: "Kamu adalah asisten belajar.",
		},
		{
			name:     "empty label",
			mode:     "",
			expected: "Kamu adalah asisten belajar.",
		},
		{
			name:     "case differs",
			mode:     "matematika",
			expected: "Kamu adalah asisten belajar.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BasePrompt(tt.mode))
		})
	}
}

func TestIsKnown(t *testing.T) {
	for _, mode := range Modes() {
		assert.True(t, IsKnown(mode), "mode %q should be known", mode)
	}
	assert.False(t, IsKnown("Sejarah"))
}

func TestFullPrompt(t *testing.T) {
	got := FullPrompt("IPA", "Kenapa langit biru?")
	assert.Equal(t, "Kamu adalah guru IPA. Jelaskan konsep dengan contoh sehari-hari.\n\nPertanyaan siswa: Kenapa langit biru?", got)

	got = FullPrompt("Sejarah", "Siapa Soekarno?")
	assert.Equal(t, "Kamu adalah asisten belajar.\n\nPertanyaan siswa: Siapa Soekarno?", got)
}

func TestModes(t *testing.T) {
	modes := Modes()
	assert.Equal(t, []string{"umum", "Matematika", "IPA", "Bahasa Indonesia", "Bahasa Inggris"}, modes)

	modes[0] = "changed"
	assert.Equal(t, "umum", Modes()[0], "Modes should return a copy")

	infos := ModeInfos()
	assert.Len(t, infos, 5)
	assert.True(t, infos[0].Default)
	assert.Equal(t, 1, lo.CountBy(infos, func(m models.ModeInfo) bool { return m.Default }))
}

func TestSearchModes(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "empty query returns all", query: "  ", expected: Modes()},
		{name: "prefix", query: "mat", expected: []string{"Matematika"}},
		{name: "case insensitive", query: "ipa", expected: []string{"IPA"}},
		{name: "shared word", query: "bahasa", expected: []string{"Bahasa Indonesia", "Bahasa Inggris"}},
		{name: "no match", query: "sejarah", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lo.Map(SearchModes(tt.query), func(m models.ModeInfo, _ int) string { return m.Label })
			assert.Equal(t, tt.expected, got)
		})
	}
}
