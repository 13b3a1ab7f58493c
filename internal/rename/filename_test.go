package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ujiie/millsheetflow/internal/models"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		info     models.DocumentInfo
		original string
		want     string
	}{
		{
			name: "all fields",
			info: models.DocumentInfo{
				Date:          "2024-01-15",
				CompanyName:   "東京製鉄",
				DocumentType:  "ミルシート",
				MaterialGrade: "SPHC",
				Dimensions:    "1.6x1219xC",
				ChargeNumber:  "AB1234",
			},
			original: "scan0001.pdf",
			want:     "2024-01-15_東京製鉄_SPHC_1.6x1219xC_AB1234_ミルシート.pdf",
		},
		{
			name: "core trio only",
			info: models.DocumentInfo{
				Date:         "2024-01-15",
				CompanyName:  "大阪鋼材株式会社",
				DocumentType: "納品書",
			},
			original: "scan0002.pdf",
			want:     "2024-01-15_大阪鋼材株式会社_納品書.pdf",
		},
		{
			name:     "date and default type",
			info:     models.DocumentInfo{Date: "2024-01-15", DocumentType: "document"},
			original: "scan0003.pdf",
			want:     "2024-01-15_document.pdf",
		},
		{
			name:     "only default type falls back to stem",
			info:     models.DocumentInfo{DocumentType: "document"},
			original: "請求書 控え.pdf",
			want:     "請求書_控え_renamed.pdf",
		},
		{
			name:     "nothing extracted falls back to stem",
			info:     models.DocumentInfo{},
			original: "scan0004.pdf",
			want:     "scan0004_renamed.pdf",
		},
		{
			name: "company needs sanitizing",
			info: models.DocumentInfo{
				CompanyName:  "山田/金属:工業",
				DocumentType: "証明書",
			},
			original: "x.pdf",
			want:     "山田_金属_工業_証明書.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.info, tt.original))
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	info := models.DocumentInfo{Date: "2024-01-15", CompanyName: "東京製鉄", DocumentType: "ミルシート"}
	first := Build(info, "a.pdf")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Build(info, "a.pdf"))
	}
}
