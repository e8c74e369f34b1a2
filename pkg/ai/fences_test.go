package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"html fence", "```html\n<!DOCTYPE html><html></html>\n```", "<!DOCTYPE html><html></html>"},
		{"single line", "```json{\"a\":1}```", `{"a":1}`},
		{"whitespace", "  \n```json\n{}\n```  \n", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, ExtractJSONObject(`Here you go: {"a":{"b":1}} thanks`))
	assert.Equal(t, "", ExtractJSONObject("no json here"))
	assert.Equal(t, "", ExtractJSONObject("} backwards {"))
}
