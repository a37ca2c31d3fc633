package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Barbearia do Zé", "barbearia-do-ze"},
		{"  Corte & Navalha!! ", "corte-navalha"},
		{"Salão São João 2", "salao-sao-joao-2"},
		{"理发店", "li-fa-dian"},
		{"理发店 Tony", "li-fa-dian-tony"},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}
