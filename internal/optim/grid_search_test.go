package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/experiment"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {0, 3, 5}})

	evaluated := 0
	params, best, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		evaluated++
		return (p["a"]-1)*(p["a"]-1) + (p["b"]-3)*(p["b"]-3), nil
	})
	require.NoError(t, err)

	assert.Equal(t, 12, evaluated)
	assert.Equal(t, 0.0, best)
	assert.Equal(t, map[string]float64{"a": 1, "b": 3}, params)
}

func TestGridSearchErrors(t *testing.T) {
	obj := func(context.Context, map[string]float64) (float64, error) { return 0, nil }

	_, _, err := NewGridSearch([]string{"a"}, nil).Search(context.Background(), obj)
	assert.Error(t, err)

	_, _, err = NewGridSearch([]string{"a"}, [][]float64{{}}).Search(context.Background(), obj)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, _, err = NewGridSearch([]string{"a"}, [][]float64{{1}}).Search(context.Background(),
		func(context.Context, map[string]float64) (float64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewGridSearch([]string{"a"}, [][]float64{{1}}).Search(ctx, obj)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetricObjective(t *testing.T) {
	base := config.GetPreset("pair", "elastic")
	base.Duration = 1
	reg := experiment.NewRegistry()

	val, err := MetricObjective(base, reg, "momentum", false)(context.Background(), map[string]float64{"iterations": 2})
	require.NoError(t, err)
	assert.InDelta(t, 0, val, 1e-9)

	val, err = MetricObjective(base, reg, "containment", true)(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, -1.0, val)

	_, err = MetricObjective(base, reg, "nope", false)(context.Background(), nil)
	assert.Error(t, err)

	_, err = MetricObjective(base, reg, "momentum", false)(context.Background(), map[string]float64{"dt": -1})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	assert.Equal(t, 1.0, base.Duration)
	assert.Equal(t, 1, base.World.CollisionIterations)
}
