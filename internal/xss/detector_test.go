package xss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeXSS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "Script Tag", input: "foo<script>", expected: true},
		{name: "Encoded Angle Bracket", input: "foo%3cscript", expected: true},
		{name: "Encoded Closing Bracket", input: "/a%3e", expected: true},
		{name: "Backslash", input: `/a\b`, expected: true},
		{name: "Encoded Backslash", input: "/a%5cb", expected: true},
		{name: "Backtick", input: "/a`b", expected: true},
		{name: "Encoded Backtick", input: "/a%60b", expected: true},
		{name: "Uppercase Encoding Is Not Matched", input: "/page%3Cscript", expected: false},
		{name: "Slash In Query", input: "/page?x=../../etc", expected: true},
		{name: "Plain Query", input: "/page?x=1", expected: false},
		{name: "Parenthesis In Query", input: "GET /q?f=alert(1)", expected: true},
		{name: "Encoded Slash In Query", input: "/q?next=%2fadmin", expected: true},
		{name: "Encoded Parenthesis In Query", input: "/q?f=alert%281%29", expected: true},
		{name: "Path Without Query", input: "GET /static/app.js", expected: false},
		{name: "Parenthesis In Path Only", input: "/wiki/Go_(language)", expected: false},
		{name: "Empty Query", input: "/page?", expected: false},
		{name: "Further Question Marks Are Dropped", input: "/p?a=%2?f", expected: true},
		{name: "Empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeXSS(tt.input))
		})
	}
}

func TestPercentEncoded(t *testing.T) {
	assert.Equal(t, "%3c", percentEncoded('<'))
	assert.Equal(t, "%5c", percentEncoded('\\'))
	assert.Equal(t, "%28", percentEncoded('('))
}
