package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// builtinSeeds cover every lexer state and the core tags.
var builtinSeeds = []string{
	"",
	"plain text",
	"<!DOCTYPE html>\n<html lang=\"en\"><body class=\"{{ cls }}\"></body></html>",
	"<img src=x alt=\"\" {{ attrs }} {spread} />",
	"<p>a &amp; b &#169; &#x1F600; &unknown</p>",
	"{# comment #}<!-- html comment -->",
	" {{- \"a #{ b ~ 'c' } d\" -}} ",
	"{{ a ?: b ?? c ? d : e }}",
	"{{ user.name|upper|default('x') ~ items[1:2] }}",
	"{{ {a: 1, (b): 2, 'c': [1, 2.5, null, none, true]} }}",
	"{{ x is not divisible by(3) and y in [1, 2] }}",
	"{% if a %}1{% elseif b %}2{% else %}3{% endif %}",
	"{% for k, v in items if v %}{{ k }}{% else %}none{% endfor %}",
	"{% set a, b = 1, 2 %}{% set c %}body{% endset %}",
	"{% block title %}T{% endblock title %}",
	"{% include 'x.twig' ignore missing with {a: 1} only %}",
	"{% macro m(a, b = 2) %}{{ a }}{% endmacro %}",
	"<{{ tag }}>{% custom 1, 2 %}</{{ tag }}>",
	"<div><span></div>",
	"{{ \"unterminated",
	"{% if %}",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range builtinSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.twig файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".twig" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

// clampInput copies input, cut to maxFuzzInput.
func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
