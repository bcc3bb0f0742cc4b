package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fenced with language tag", "```json\n{\"facts\": []}\n```", `{"facts": []}`},
		{"fenced without language tag", "```\n{\"facts\": []}\n```", `{"facts": []}`},
		{"closing fence on the content line", "```json\n{\"facts\": []}```", `{"facts": []}`},
		{"no fence", `{"facts": []}`, `{"facts": []}`},
		{"surrounding whitespace", "\n  {\"facts\": []}  \n", `{"facts": []}`},
		{"empty input", "", ""},
		{"only fences", "```json\n```", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFence(tc.in))
		})
	}
}

func TestConvertToFloat32(t *testing.T) {
	assert.Equal(t, []float32{0.25, -1.5, 3}, ConvertToFloat32([]float64{0.25, -1.5, 3}))
	assert.Empty(t, ConvertToFloat32(nil))
}
