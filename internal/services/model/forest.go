package model

import (
	"math"
	"math/rand"
	"sort"
)

// ForestConfig controls random-forest training.
type ForestConfig struct {
	Trees    int // number of bootstrap trees
	MaxDepth int // 0 means unlimited
	MinSplit int // smallest node eligible for splitting
}

// DefaultForestConfig mirrors the service's production settings: enough trees
// to stabilize the ensemble mean without making same-day retraining painful.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, MaxDepth: 12, MinSplit: 2}
}

// Forest is a bagged ensemble of regression trees predicting next-day close
// from a scaled feature vector.
type Forest struct {
	trees []*treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) leaf() bool { return n.left == nil }

// TrainForest fits the ensemble. The caller owns the rand source; a fixed
// seed reproduces the forest exactly.
func TrainForest(x [][]float64, y []float64, cfg ForestConfig, rng *rand.Rand) *Forest {
	if len(x) == 0 || len(x) != len(y) {
		return nil
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MinSplit < 2 {
		cfg.MinSplit = 2
	}

	f := &Forest{trees: make([]*treeNode, 0, cfg.Trees)}
	idx := make([]int, len(x))
	for t := 0; t < cfg.Trees; t++ {
		// bootstrap sample, n draws with replacement
		for i := range idx {
			idx[i] = rng.Intn(len(x))
		}
		f.trees = append(f.trees, buildTree(x, y, idx, cfg, 0))
	}
	return f
}

// Predict returns the ensemble mean for one scaled vector.
func (f *Forest) Predict(v []float64) float64 {
	if f == nil || len(f.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range f.trees {
		node := t
		for !node.leaf() {
			if v[node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		sum += node.value
	}
	return sum / float64(len(f.trees))
}

func buildTree(x [][]float64, y []float64, idx []int, cfg ForestConfig, depth int) *treeNode {
	if len(idx) < cfg.MinSplit || (cfg.MaxDepth > 0 && depth >= cfg.MaxDepth) {
		return &treeNode{value: meanAt(y, idx)}
	}

	feature, threshold, ok := bestSplit(x, y, idx)
	if !ok {
		return &treeNode{value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{value: meanAt(y, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(x, y, left, cfg, depth+1),
		right:     buildTree(x, y, right, cfg, depth+1),
	}
}

// bestSplit scans every feature with a sorted prefix-sum sweep and returns
// the split minimizing the summed squared error of the two children.
func bestSplit(x [][]float64, y []float64, idx []int) (int, float64, bool) {
	nFeatures := len(x[idx[0]])
	n := len(idx)

	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, n)
	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		// prefix sums of y and y^2 in sorted order
		sumL, sqL := 0.0, 0.0
		sumT, sqT := 0.0, 0.0
		for _, i := range order {
			sumT += y[i]
			sqT += y[i] * y[i]
		}

		for k := 0; k < n-1; k++ {
			yi := y[order[k]]
			sumL += yi
			sqL += yi * yi

			// no valid threshold between equal feature values
			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}

			nl := float64(k + 1)
			nr := float64(n - k - 1)
			sseL := sqL - sumL*sumL/nl
			sumR := sumT - sumL
			sseR := (sqT - sqL) - sumR*sumR/nr
			if sse := sseL + sseR; sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (x[order[k]][f] + x[order[k+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func meanAt(y []float64, idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}
