// Copyright (c) 2026 Choice Properties. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/choiceproperties-source/choice/pkg/slug"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Sunny 2BR Apartment, Midtown", "sunny-2br-apartment-midtown"},
		{"accents stripped", "Résidence Élysée", "residence-elysee"},
		{"punctuation collapsed", "Loft -- near / the park!", "loft-near-the-park"},
		{"leading and trailing noise", "  ...Cozy Studio...  ", "cozy-studio"},
		{"already a slug", "cozy-studio", "cozy-studio"},
		{"empty input", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, slug.From(testCase.input))
		})
	}
}
