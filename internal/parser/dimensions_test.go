package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDimensions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"standard coil", "1.6 x 1219 x COIL", "1.6x1219xC"},
		{"katakana coil", "3.2×1524×コイル", "3.2x1524xC"},
		{"numeric length", "1.6X1219X2438", "1.6x1219x2438"},
		{"comma grouped width", "1.60X1,535XCOIL", "1.6x1535xC"},
		{"decimal read into width", "2.3X1.219XCOIL", "2.3x1219xC"},
		{"ocr split thickness and width", "22. 00X1, 540XCOIL", "22x1540xC"},
		{"t prefixed", "t2.0 x 914 x COIL", "2x914xC"},
		{"labeled thickness and width", "板厚 3.2mm 幅 1250mm", "3.2x1250"},
		{"suffixed thickness and width", "1.6t x 1219W", "1.6x1219"},
		{"thickness only fallback", "Size 2.30 x", "2.3"},
		{"width below range rejected", "5.0 x 30 x COIL", ""},
		{"width not above thickness rejected", "100 x 100 x COIL", ""},
		{"none", "特になし", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDimensions(tt.text))
		})
	}
}

func TestExtractDimensions_SectionPreferred(t *testing.T) {
	text := "寸法\n1.6X1219XCOIL"
	assert.Equal(t, "1.6x1219xC", ExtractDimensions(text))

	text = "DIMENSION: 2.0X1000X2000 ほか"
	assert.Equal(t, "2x1000x2000", ExtractDimensions(text))
}

func TestFormatThickness(t *testing.T) {
	assert.Equal(t, "22", formatThickness("22.00"))
	assert.Equal(t, "1.6", formatThickness("1.60"))
	assert.Equal(t, "3.25", formatThickness("3.25"))
	assert.Equal(t, "2", formatThickness("2"))
}
