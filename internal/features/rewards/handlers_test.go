package rewards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/stamp-card/internal/common"
)

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(strings.Fields("250 Поход в кино"))
	require.NoError(t, err)
	assert.Equal(t, Command{Points: 250, Label: "Поход в кино"}, cmd)

	cmd, err = ParseCommand(strings.Fields("#2 300"))
	require.NoError(t, err)
	assert.Equal(t, Command{Number: 2, Points: 300}, cmd)

	cmd, err = ParseCommand(strings.Fields("#1 120 Латте"))
	require.NoError(t, err)
	assert.Equal(t, Command{Number: 1, Points: 120, Label: "Латте"}, cmd)
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", common.ErrUsage},
		{"#x 100", common.ErrUsage},
		{"#2", common.ErrUsage},
		{"много Кофе", common.ErrInvalidPoints},
		{"100", common.ErrEmptyLabel},
	}
	for _, tt := range tests {
		_, err := ParseCommand(strings.Fields(tt.input))
		assert.ErrorIs(t, err, tt.want, tt.input)
	}
}

func TestRenderList(t *testing.T) {
	text := RenderList([]*Reward{
		{Label: "Кофе", Points: 100},
		{Label: "Кино", Points: 510},
	})
	assert.Equal(t, "🎁 Награды:\n1. Кофе · 100 баллов (клетка 4)\n2. Кино · 510 баллов (клетка 21)", text)

	assert.Contains(t, RenderList(nil), "Наград пока нет")
}
