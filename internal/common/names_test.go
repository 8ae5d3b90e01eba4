package common

import (
	"testing"
)

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "all caps is re-cased",
			input: "PT BANK CENTRAL ASIA TBK",
			want:  "PT Bank Central Asia Tbk",
		},
		{
			name:  "lowercase words are re-cased",
			input: "pt astra international tbk",
			want:  "PT Astra International Tbk",
		},
		{
			name:  "trailing uppercase letter triggers re-casing",
			input: "Budi SantosO",
			want:  "Budi Santoso",
		},
		{
			name:  "already clean name is untouched",
			input: "PT Telkom Indonesia Tbk",
			want:  "PT Telkom Indonesia Tbk",
		},
		{
			name:  "pt abbreviation is restored after title casing",
			input: "pt. bank rakyat indonesia",
			want:  "PT. Bank Rakyat Indonesia",
		},
		{
			name:  "personal name stays as-is",
			input: "Budi Santoso",
			want:  "Budi Santoso",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCompanyName(tt.input); got != tt.want {
				t.Errorf("CleanCompanyName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
