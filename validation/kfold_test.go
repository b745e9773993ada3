package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sdmgo/spatial"
)

func checkPartition(t *testing.T, folds []Fold, n int) {
	t.Helper()
	seen := make(map[int]int)
	for i, fold := range folds {
		assert.Equal(t, n, len(fold.TrainIndices)+len(fold.TestIndices), "Fold %d size", i)

		testSet := make(map[int]bool)
		for _, idx := range fold.TestIndices {
			testSet[idx] = true
			seen[idx]++
		}
		for _, idx := range fold.TrainIndices {
			assert.False(t, testSet[idx], "Train index %d in test set", idx)
		}
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, 1, seen[i], "Index %d coverage", i)
	}
}

func TestKFold(t *testing.T) {
	t.Run("Basic KFold split", func(t *testing.T) {
		kf := NewKFold(5, false, 42)
		assert.Equal(t, 5, kf.GetNSplits())

		folds, err := kf.Split(100)
		require.NoError(t, err)
		require.Len(t, folds, 5)
		for i, fold := range folds {
			assert.Equal(t, 80, len(fold.TrainIndices), "Fold %d train size", i)
			assert.Equal(t, 20, len(fold.TestIndices), "Fold %d test size", i)
		}
		checkPartition(t, folds, 100)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, folds[0].TestIndices[:5])
	})

	t.Run("KFold with shuffle", func(t *testing.T) {
		plain, err := NewKFold(5, false, 42).Split(50)
		require.NoError(t, err)
		shuffled, err := NewKFold(5, true, 42).Split(50)
		require.NoError(t, err)
		again, err := NewKFold(5, true, 42).Split(50)
		require.NoError(t, err)

		checkPartition(t, shuffled, 50)
		assert.NotEqual(t, plain[0].TestIndices, shuffled[0].TestIndices)
		assert.Equal(t, shuffled, again, "same seed should give the same folds")
	})

	t.Run("Uneven split", func(t *testing.T) {
		folds, err := NewKFold(3, false, 0).Split(10)
		require.NoError(t, err)
		assert.Len(t, folds[0].TestIndices, 4)
		assert.Len(t, folds[2].TestIndices, 3)
		checkPartition(t, folds, 10)
	})

	t.Run("Too few samples", func(t *testing.T) {
		_, err := NewKFold(5, false, 0).Split(3)
		assert.Error(t, err)
		_, err = (&KFold{NSplits: 1}).Split(10)
		assert.Error(t, err)
	})
}

func TestStratifiedKFold(t *testing.T) {
	labels := make([]float64, 40)
	for i := 0; i < 10; i++ {
		labels[i] = 1
	}

	folds, err := NewStratifiedKFold(5, true, 7).Split(labels)
	require.NoError(t, err)
	checkPartition(t, folds, len(labels))

	for i, fold := range folds {
		var presence int
		for _, idx := range fold.TestIndices {
			if labels[idx] == 1 {
				presence++
			}
		}
		assert.Equal(t, 2, presence, "Fold %d presence count", i)
		assert.Len(t, fold.TestIndices, 8, "Fold %d test size", i)
	}
}

func TestBlockKFold(t *testing.T) {
	// 4x4 degree square sampled on a 0.5 degree lattice: 16 one-degree blocks
	var points []spatial.Point
	for x := 0.25; x < 4; x += 0.5 {
		for y := 0.25; y < 4; y += 0.5 {
			points = append(points, spatial.Point{x, y})
		}
	}

	bk := NewBlockKFold(4, 1, 3)
	folds, err := bk.Split(points)
	require.NoError(t, err)
	require.Len(t, folds, 4)
	checkPartition(t, folds, len(points))

	blockFold := make(map[[2]int]int)
	for f, fold := range folds {
		assert.Len(t, fold.TestIndices, 16, "Fold %d balanced", f)
		for _, idx := range fold.TestIndices {
			p := points[idx]
			key := [2]int{int(p.X()), int(p.Y())}
			if prev, ok := blockFold[key]; ok {
				assert.Equal(t, prev, f, "block %v split across folds", key)
			}
			blockFold[key] = f
		}
	}

	again, err := bk.Split(points)
	require.NoError(t, err)
	assert.Equal(t, folds, again)
}

func TestBlockKFoldErrors(t *testing.T) {
	points := []spatial.Point{{0.1, 0.1}, {0.2, 0.2}, {0.3, 0.3}}

	_, err := NewBlockKFold(2, 1, 0).Split(points)
	assert.Error(t, err, "one occupied block cannot make two folds")

	_, err = NewBlockKFold(2, 0, 0).Split(points)
	assert.Error(t, err)

	_, err = NewBlockKFold(2, 0.1, 0).Split([]spatial.Point{{0, 0}, {0, 100}})
	assert.Error(t, err)
}
