package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Boas-vindas à Empresa", "boas-vindas-empresa"},
		{"  Técnicas de Venda 101  ", "t-cnicas-de-venda-101"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSummarize(t *testing.T) {
	short := "Bom dia, equipe!"
	assert.Equal(t, short, Summarize(short, 50))

	exact := strings.Repeat("a", 50)
	assert.Equal(t, exact, Summarize(exact, 50))

	long := strings.Repeat("b", 51)
	got := Summarize(long, 50)
	assert.Equal(t, strings.Repeat("b", 47)+"...", got)
	assert.Len(t, got, 50)
}
