package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemKind(t *testing.T) {
	kind, err := ParseItemKind("service")
	require.NoError(t, err)
	assert.Equal(t, KindService, kind)

	kind, err = ParseItemKind("menu")
	require.NoError(t, err)
	assert.Equal(t, KindMenu, kind)

	for _, raw := range []string{"", "Service", "MENU", "gadget"} {
		_, err := ParseItemKind(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
