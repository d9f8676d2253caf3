package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParts(t *testing.T) {
	parts := Path("/types/{name}/relations").Parts()
	assert.Equal(t, []PathPart{
		{Type: StaticPart, Value: "/types/"},
		{Type: ParameterPart, Value: "name"},
		{Type: StaticPart, Value: "/relations"},
	}, parts)
}

func TestPathConvert(t *testing.T) {
	tests := []struct {
		path     Path
		wildcard string
		want     string
	}{
		{"/healthz", "*", "/healthz"},
		{"/types/{name}", "*", "/types/:name"},
		{"/contexts/{package}/members", "*", "/contexts/:package/members"},
		{"/files/{*}", "*path", "/files/*path"},
		{"/broken/{name", "*", "/broken/{name"},
	}

	for _, tt := range tests {
		t.Run(tt.path.Raw(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.ColonPath(tt.wildcard))
		})
	}
}
