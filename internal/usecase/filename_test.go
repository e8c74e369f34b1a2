package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFilename(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		company string
		want    string
	}{
		{"first last company", "Jane Doe", "Acme Corp", "Jane_Doe_Acme_Corp.pdf"},
		{"single token", "Madonna", "", "Madonna.pdf"},
		{"empty", "", "", "Resume.pdf"},
		{"first last", "Jane Doe", "", "Jane_Doe.pdf"},
		{"middle names dropped", "mary ann van der berg", "", "Mary_Berg.pdf"},
		{"case normalised", "jANE dOE", "aCME", "Jane_Doe_Acme.pdf"},
		{"extra whitespace", "  Jane \t Doe \n", "  Acme   Corp ", "Jane_Doe_Acme_Corp.pdf"},
		{"single with company", "Cher", "Globex", "Cher_Globex.pdf"},
		{"unicode", "élodie ünal", "", "Élodie_Ünal.pdf"},
		{"whitespace company", "Jane Doe", "   ", "Jane_Doe.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveFilename(tt.in, tt.company))
		})
	}
}

func TestDeriveFilename_Deterministic(t *testing.T) {
	first := DeriveFilename("Jane Doe", "Acme Corp")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, DeriveFilename("Jane Doe", "Acme Corp"))
	}
}
