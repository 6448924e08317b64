package pointcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalc_OneFullRow(t *testing.T) {
	rewards := []Reward{{ID: "1", Label: "Торт", Points: 200}}

	state := Calc(0, rewards)
	assert.Equal(t, 8, state.TotalSquares)
	require.Len(t, state.Rows, 1)
	require.Len(t, state.Rows[0].Squares, 8)
	require.NotNil(t, state.Rows[0].Squares[7].Reward)
	assert.Equal(t, "Торт", state.Rows[0].Squares[7].Reward.Label)

	full := Calc(200, rewards)
	assert.Equal(t, full.TotalSquares, full.FilledSquares)
	for _, sq := range full.Rows[0].Squares {
		assert.True(t, sq.Filled)
	}
}

func TestCalc_SecondRowPadded(t *testing.T) {
	rewards := []Reward{{ID: "1", Label: "Поездка", Points: 250}}

	state := Calc(0, rewards)
	assert.Equal(t, 16, state.TotalSquares)
	require.Len(t, state.Rows, 2)
	for _, row := range state.Rows {
		assert.Len(t, row.Squares, Cols)
	}
	require.NotNil(t, state.Rows[1].Squares[1].Reward)
	assert.Equal(t, "Поездка", state.Rows[1].Squares[1].Reward.Label)

	reached := Calc(250, rewards)
	assert.Equal(t, 10, reached.FilledSquares)
	for i := 0; i < reached.TotalSquares; i++ {
		sq, ok := reached.At(i)
		require.True(t, ok)
		assert.Equal(t, i < 10, sq.Filled, "клетка %d", i)
	}
}

func TestCalc_LongCard(t *testing.T) {
	rewards := []Reward{{ID: "1", Label: "Путешествие", Points: 10000}}

	state := Calc(0, rewards)
	assert.Equal(t, 400, state.TotalSquares)
	require.Len(t, state.Rows, 50)
	for _, row := range state.Rows {
		assert.Len(t, row.Squares, 8)
	}
	require.NotNil(t, state.Rows[49].Squares[7].Reward)
	assert.Equal(t, "Путешествие", state.Rows[49].Squares[7].Reward.Label)

	full := Calc(10000, rewards)
	assert.Equal(t, full.TotalSquares, full.FilledSquares)
}

func TestCalc_NoRewardsUsesDefaultHorizon(t *testing.T) {
	state := Calc(120, nil)
	assert.Equal(t, 24, state.TotalSquares)
	assert.Len(t, state.Rows, 3)
	assert.Equal(t, 4, state.FilledSquares)
	for _, row := range state.Rows {
		for _, sq := range row.Squares {
			assert.Nil(t, sq.Reward)
		}
	}
}

func TestCalc_Properties(t *testing.T) {
	rewardSets := [][]Reward{
		nil,
		{{ID: "a", Points: 1}},
		{{ID: "a", Points: 25}},
		{{ID: "a", Points: 26}},
		{{ID: "a", Points: 199}, {ID: "b", Points: 201}},
		{{ID: "a", Points: 75}, {ID: "b", Points: 1000}, {ID: "c", Points: 380}},
	}
	for _, rewards := range rewardSets {
		for points := 0; points <= 1200; points += 7 {
			state := Calc(points, rewards)
			assert.Positive(t, state.TotalSquares)
			assert.Zero(t, state.TotalSquares%Cols, "totalSquares кратно 8")
			assert.Equal(t, points/PointsPerSquare, state.FilledSquares)
			assert.Equal(t, state.TotalSquares/Cols, len(state.Rows))
		}
	}
}

func TestCalc_RewardCollision(t *testing.T) {
	// 110 и 120 попадают на клетку 4
	a := Reward{ID: "b", Label: "кофе", Points: 110}
	b := Reward{ID: "a", Label: "кино", Points: 120}
	c := Reward{ID: "c", Label: "чай", Points: 110}

	for _, order := range [][]Reward{{a, b, c}, {c, b, a}, {b, c, a}} {
		state := Calc(0, order)
		sq, ok := state.At(4)
		require.True(t, ok)
		require.NotNil(t, sq.Reward)
		assert.Equal(t, "кофе", sq.Reward.Label, "меньший порог, затем меньший ID")
	}
}

func TestCalc_NonPositiveRewardsIgnored(t *testing.T) {
	state := Calc(0, []Reward{{ID: "x", Points: 0}, {ID: "y", Points: -50}})
	assert.Equal(t, 24, state.TotalSquares, "без валидных наград — горизонт по умолчанию")

	state = Calc(0, []Reward{{ID: "x", Points: 0}, {ID: "y", Points: 100}})
	assert.Equal(t, 8, state.TotalSquares)
	sq, _ := state.At(3)
	require.NotNil(t, sq.Reward)
	assert.Equal(t, "y", sq.Reward.ID)
}

func TestCalc_NegativePoints(t *testing.T) {
	state := Calc(-30, nil)
	assert.Equal(t, 0, state.FilledSquares)
	sq, _ := state.At(0)
	assert.False(t, sq.Filled)
}

func TestCalc_Overflow(t *testing.T) {
	state := Calc(300, []Reward{{ID: "1", Points: 200}})
	assert.Equal(t, 12, state.FilledSquares)
	assert.Equal(t, 8, state.TotalSquares)
	assert.Equal(t, 4, state.Overflow())

	assert.Zero(t, Calc(100, []Reward{{ID: "1", Points: 200}}).Overflow())
}

func TestCalc_Idempotent(t *testing.T) {
	rewards := []Reward{{ID: "1", Points: 75}, {ID: "2", Points: 400}}
	assert.Equal(t, Calc(130, rewards), Calc(130, rewards))
}

func TestCalc_DoesNotAliasInput(t *testing.T) {
	rewards := []Reward{{ID: "1", Label: "до", Points: 50}}
	state := Calc(0, rewards)

	sq, _ := state.At(1)
	require.NotNil(t, sq.Reward)
	sq.Reward.Label = "после"
	assert.Equal(t, "до", rewards[0].Label)
}

func TestState_At(t *testing.T) {
	state := Calc(0, nil)
	_, ok := state.At(-1)
	assert.False(t, ok)
	_, ok = state.At(state.TotalSquares)
	assert.False(t, ok)
	_, ok = state.At(state.TotalSquares - 1)
	assert.True(t, ok)
}

func TestSquareIndex(t *testing.T) {
	assert.Equal(t, -1, SquareIndex(0))
	assert.Equal(t, 0, SquareIndex(1))
	assert.Equal(t, 0, SquareIndex(25))
	assert.Equal(t, 1, SquareIndex(26))
	assert.Equal(t, 7, SquareIndex(200))
	assert.Equal(t, 9, SquareIndex(250))
}

func TestNewlyFilled(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, NewlyFilled(20, 80))
	assert.Equal(t, []int{3}, NewlyFilled(75, 100))
	assert.Nil(t, NewlyFilled(80, 20))
	assert.Nil(t, NewlyFilled(26, 49))
}

func TestRewardsReached(t *testing.T) {
	rewards := []Reward{
		{ID: "3", Points: 300},
		{ID: "2", Points: 250},
		{ID: "1", Points: 200},
	}
	got := RewardsReached(180, 260, rewards)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	assert.Nil(t, RewardsReached(260, 180, rewards))
	assert.Empty(t, RewardsReached(180, 199, rewards))
}
