package robot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPathRefs(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "img src",
			fragment: `<img src="screenshot.png" width="800px">`,
			want:     []string{"screenshot.png"},
		},
		{
			name:     "anchor href",
			fragment: `<a href="report.html">Report</a>`,
			want:     []string{"report.html"},
		},
		{
			name:     "document order preserved",
			fragment: `<a href="first.html">x</a> then <img src="second.png">`,
			want:     []string{"first.html", "second.png"},
		},
		{
			name:     "self closing form",
			fragment: `<img src="shot.png"/>`,
			want:     []string{"shot.png"},
		},
		{
			name: "malformed table fragment with video",
			fragment: `</td></tr><tr><td colspan="3"><video width="800px" controls>` +
				`<source src="video/0-73a067fbe34b2b5cf7d977739ae2bf76.webm" type="video/webm"></video>`,
			want: []string{"video/0-73a067fbe34b2b5cf7d977739ae2bf76.webm"},
		},
		{
			name:     "unknown tag",
			fragment: `<thumbnail src="thumb.jpg">`,
			want:     []string{"thumb.jpg"},
		},
		{
			name:     "unquoted attribute value",
			fragment: `<img src=plain.png>`,
			want:     []string{"plain.png"},
		},
		{
			name:     "entity encoded attribute value",
			fragment: `<img src="a&amp;b.png">`,
			want:     []string{"a&b.png"},
		},
		{
			name:     "upper case tag and attribute names",
			fragment: `<IMG SRC="caps.png">`,
			want:     []string{"caps.png"},
		},
		{
			name:     "end tag is not a start tag",
			fragment: `</a>`,
			want:     nil,
		},
		{
			name:     "unterminated tag yields nothing",
			fragment: `<img src="cut.png`,
			want:     nil,
		},
		{
			name:     "plain text",
			fragment: `2 passed, 1 failed`,
			want:     nil,
		},
		{
			name:     "other attributes ignored",
			fragment: `<div id="x" class="y">text</div>`,
			want:     nil,
		},
		{
			name:     "empty fragment",
			fragment: ``,
			want:     nil,
		},
		{
			name:     "multiple refs on one tag",
			fragment: `<a href="target.html" src="icon.png">x</a>`,
			want:     []string{"target.html", "icon.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPathRefs(tt.fragment))
		})
	}
}
