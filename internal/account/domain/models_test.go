package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	for _, code := range []string{"101000", "244000", "311000", "411000", "521000", "601000", "701000", "801000"} {
		class, err := ClassOf(code)
		assert.NoError(t, err, code)
		assert.Equal(t, int(code[0]-'0'), class)
	}

	for _, code := range []string{"0xxxxx", "011000", "9xxxxx", "901000", "", "X1000"} {
		_, err := ClassOf(code)
		assert.ErrorIs(t, err, ErrInvalidAccountClass, code)
	}
}

func TestDeriveType(t *testing.T) {
	cases := []struct {
		code string
		want AccountType
	}{
		{"101000", TypeLiability},
		{"244000", TypeAsset},
		{"311000", TypeAsset},
		{"401000", TypeLiability},
		{"411000", TypeAsset},
		{"521000", TypeAsset},
		{"601000", TypeExpense},
		{"701000", TypeRevenue},
	}
	for _, tc := range cases {
		class, err := ClassOf(tc.code)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, DeriveType(tc.code, class), tc.code)
	}
}

func TestDeriveNormalBalance(t *testing.T) {
	assert.Equal(t, SideDebit, DeriveNormalBalance(TypeAsset))
	assert.Equal(t, SideDebit, DeriveNormalBalance(TypeExpense))
	assert.Equal(t, SideCredit, DeriveNormalBalance(TypeLiability))
	assert.Equal(t, SideCredit, DeriveNormalBalance(TypeRevenue))
}
