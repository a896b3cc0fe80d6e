package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "html-summary", New().Name())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Plain text.", "Plain text."},
		{
			"inline tags",
			`<p>The <strong><code>Foo</code></strong> interface of the <a href="/en-US/docs/Web/API/DOM">DOM</a>.</p>`,
			"The Foo interface of the DOM.",
		},
		{"entities", "Use &lt;input&gt; &amp; friends &#39;here&#39;", "Use <input> & friends 'here'"},
		{"nbsp entity", "a&nbsp;b", "a b"},
		{"nbsp rune", "a\u00a0b", "a b"},
		{"newlines and tabs", "  one\n\ttwo \r\n three  ", "one two three"},
		{"script content dropped", "before<script>alert(1)</script>after", "beforeafter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New().Normalise(tt.in))
		})
	}
}
