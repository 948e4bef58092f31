// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package title

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "punctuation and padding", in: " Hello, World! 2024 ", want: "Hello_World_2024"},
		{name: "nothing survives", in: "???", want: "Untitled"},
		{name: "empty", in: "", want: "Untitled"},
		{name: "only spaces", in: "    ", want: "Untitled"},
		{name: "keeps hyphen and underscore", in: "pre-trained_model v2", want: "pre-trained_model_v2"},
		{name: "keeps CJK", in: "第一章：方法 概述", want: "第一章方法_概述"},
		{name: "keeps accented letters", in: "Résumé", want: "Résumé"},
		{name: "drops newlines and tabs", in: "Line\tone\nLine two", want: "LineoneLine_two"},
		{name: "strips markdown emphasis", in: "**Results**", want: "Results"},
		{
			name: "truncates to 40 runes",
			in:   strings.Repeat("a", 50),
			want: strings.Repeat("a", 40),
		},
		{
			name: "truncates multibyte by rune",
			in:   strings.Repeat("數", 45),
			want: strings.Repeat("數", 40),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeProperties(t *testing.T) {
	inputs := []string{
		"",
		"???",
		" Hello, World! 2024 ",
		"  leading and trailing  ",
		"a b c d e f g h i j k l m n o p q r s t u v w x y z",
		strings.Repeat("word ", 20),
		"混合 mixed 內容 -- content!!",
		"​zero​width",
		"emoji 🚀 launch",
		strings.Repeat(" ", 39) + "x",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := Sanitize(in)

			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxLen)
			assert.NotContains(t, got, " ")
			for _, r := range got {
				assert.True(t, keep(r), "unexpected rune %q in %q", r, got)
			}
			assert.Equal(t, got, Sanitize(got), "sanitize must be idempotent")
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("Intro"))
	assert.True(t, Valid("前言"))
	assert.True(t, Valid(" - "))
	assert.False(t, Valid(""))
	assert.False(t, Valid("   "))
	assert.False(t, Valid("!!!"))
}
