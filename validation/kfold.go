// Package validation partitions presence/background records into
// cross-validation folds, either by index or by spatial block.
package validation

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// Fold represents a single fold in cross-validation
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation splitter
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int64
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed int64) *KFold {
	if nSplits < 2 {
		nSplits = 5 // Default to 5-fold
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for n samples
func (kf *KFold) Split(n int) ([]Fold, error) {
	if err := checkSplits("KFold.Split", kf.NSplits, n); err != nil {
		return nil, err
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		shuffle(indices, kf.RandomSeed)
	}

	foldOf := make([]int, n)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits
	current := 0
	for f := 0; f < kf.NSplits; f++ {
		testSize := foldSize
		if f < remainder {
			testSize++
		}
		for _, idx := range indices[current : current+testSize] {
			foldOf[idx] = f
		}
		current += testSize
	}
	return buildFolds(foldOf, kf.NSplits), nil
}

// StratifiedKFold keeps the presence/background ratio of each fold close to
// the ratio of the whole data set.
type StratifiedKFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int64
}

// NewStratifiedKFold creates a new stratified k-fold splitter
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// Split generates stratified folds. labels is 1 for presence and 0 for
// background (any other value forms its own stratum).
func (skf *StratifiedKFold) Split(labels []float64) ([]Fold, error) {
	if err := checkSplits("StratifiedKFold.Split", skf.NSplits, len(labels)); err != nil {
		return nil, err
	}

	classIndices := make(map[float64][]int)
	var classes []float64
	for i, label := range labels {
		if _, ok := classIndices[label]; !ok {
			classes = append(classes, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classes)

	foldOf := make([]int, len(labels))
	offset := 0
	for _, label := range classes {
		indices := classIndices[label]
		if skf.Shuffle {
			shuffle(indices, skf.RandomSeed)
		}
		// continue the round-robin across classes so small classes do not
		// all land in fold 0
		for j, idx := range indices {
			foldOf[idx] = (offset + j) % skf.NSplits
		}
		offset += len(indices)
	}
	return buildFolds(foldOf, skf.NSplits), nil
}

// BlockKFold assigns square lon/lat blocks of BlockSizeDeg degrees to folds,
// so that test points are spatially separated from training points.
type BlockKFold struct {
	NSplits      int
	BlockSizeDeg float64
	RandomSeed   int64
}

// NewBlockKFold creates a new spatial block splitter
func NewBlockKFold(nSplits int, blockSizeDeg float64, randomSeed int64) *BlockKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &BlockKFold{NSplits: nSplits, BlockSizeDeg: blockSizeDeg, RandomSeed: randomSeed}
}

// Split groups points by block and balances blocks across folds, largest
// block first.
func (bk *BlockKFold) Split(points []spatial.Point) ([]Fold, error) {
	const op = "BlockKFold.Split"
	if err := checkSplits(op, bk.NSplits, len(points)); err != nil {
		return nil, err
	}
	if !(bk.BlockSizeDeg > 0) || math.IsInf(bk.BlockSizeDeg, 0) {
		return nil, errors.NewInvalidParameterError(op, "block_size_deg", "must be a finite positive size", bk.BlockSizeDeg)
	}

	type blockKey struct{ x, y int }
	members := make(map[blockKey][]int)
	var keys []blockKey
	for i, p := range points {
		if err := spatial.ValidatePoint(op, p); err != nil {
			return nil, err
		}
		k := blockKey{int(math.Floor(p.X() / bk.BlockSizeDeg)), int(math.Floor(p.Y() / bk.BlockSizeDeg))}
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
		}
		members[k] = append(members[k], i)
	}
	if len(keys) < bk.NSplits {
		return nil, errors.NewInvalidParameterError(op, "n_splits", "more folds than occupied blocks", len(keys))
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	shuffle(order, bk.RandomSeed)
	sort.SliceStable(order, func(a, b int) bool {
		return len(members[keys[order[a]]]) > len(members[keys[order[b]]])
	})

	sizes := make([]int, bk.NSplits)
	foldOf := make([]int, len(points))
	for _, o := range order {
		f := 0
		for i := 1; i < bk.NSplits; i++ {
			if sizes[i] < sizes[f] {
				f = i
			}
		}
		for _, idx := range members[keys[o]] {
			foldOf[idx] = f
		}
		sizes[f] += len(members[keys[o]])
	}
	return buildFolds(foldOf, bk.NSplits), nil
}

func checkSplits(op string, nSplits, n int) error {
	if nSplits < 2 {
		return errors.NewInvalidParameterError(op, "n_splits", "must be at least 2", nSplits)
	}
	if n < nSplits {
		return errors.NewInvalidParameterError(op, "n_samples", "fewer samples than folds", n)
	}
	return nil
}

func shuffle(indices []int, seed int64) {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

// buildFolds turns a per-sample fold assignment into train/test index lists,
// each in ascending order.
func buildFolds(foldOf []int, nSplits int) []Fold {
	folds := make([]Fold, nSplits)
	for i := range folds {
		folds[i] = Fold{TrainIndices: make([]int, 0), TestIndices: make([]int, 0)}
	}
	for idx, f := range foldOf {
		for i := range folds {
			if i == f {
				folds[i].TestIndices = append(folds[i].TestIndices, idx)
			} else {
				folds[i].TrainIndices = append(folds[i].TrainIndices, idx)
			}
		}
	}
	return folds
}
