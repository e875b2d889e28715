package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLabelVariesByChangeKind(t *testing.T) {
	p := Default()
	assert.Equal(t, p.SuccessFg, p.StatusLabel("added").GetForeground())
	assert.Equal(t, p.ErrorFg, p.StatusLabel("deleted").GetForeground())
	assert.Equal(t, p.WarnFg, p.StatusLabel("renamed").GetForeground())
	assert.Equal(t, p.TextFg, p.StatusLabel("modified").GetForeground())
}
