package risk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// Params configures forest training.
type Params struct {
	Trees        int     `json:"trees"`
	MaxDepth     int     `json:"max_depth"`
	MinLeaf      int     `json:"min_leaf"`
	Seed         uint64  `json:"seed"`
	TestFraction float64 `json:"test_fraction"`
}

// DefaultParams returns the standard failure-prediction configuration.
func DefaultParams() Params {
	return Params{Trees: 100, MaxDepth: 8, MinLeaf: 1, Seed: 42, TestFraction: 0.2}
}

// Node is one node of a flattened decision tree. Leaves have Leaf set and
// carry the failure fraction of the training rows that reached them.
type Node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Feature   int     `json:"f,omitempty"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Prob      float64 `json:"p,omitempty"`
}

// Tree is a CART classification tree stored as a node slice; Nodes[0] is
// the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) probability(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Prob
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest is a trained random forest failure classifier.
type Forest struct {
	Features  []string  `json:"features"`
	Params    Params    `json:"params"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
	Trees     []Tree    `json:"trees"`
}

// Probability returns the mean leaf failure fraction across all trees.
// x must be ordered as f.Features.
func (f *Forest) Probability(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].probability(x)
	}
	return sum / float64(len(f.Trees))
}

// Predict reports whether the stope is classified as a failure.
func (f *Forest) Predict(x []float64) bool {
	return f.Probability(x) >= 0.5
}

// Train fits a random forest: each tree grows on a bootstrap sample and
// considers √features candidates per split. Trees are built concurrently,
// each from its own seeded stream, so the result depends only on ds and p.
func Train(ctx context.Context, ds *Dataset, p Params) (*Forest, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.New("training on an empty dataset")
	}
	if p.Trees <= 0 {
		return nil, fmt.Errorf("tree count must be positive, got %d", p.Trees)
	}
	if p.MaxDepth <= 0 {
		return nil, fmt.Errorf("max depth must be positive, got %d", p.MaxDepth)
	}
	p.MinLeaf = max(1, p.MinLeaf)

	forest := &Forest{
		Features:  slices.Clone(ds.Features),
		Params:    p,
		Samples:   ds.Len(),
		TrainedAt: time.Now().UTC(),
		Trees:     make([]Tree, p.Trees),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range forest.Trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(p.Seed, uint64(i)))
			b := &builder{ds: ds, p: p, rng: rng, mtry: featureSample(len(ds.Features))}
			forest.Trees[i] = b.build(b.bootstrap())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("training forest: %w", err)
	}
	return forest, nil
}

func featureSample(n int) int {
	return max(1, int(math.Sqrt(float64(n))))
}

type builder struct {
	ds    *Dataset
	p     Params
	rng   *rand.Rand
	mtry  int
	nodes []Node
}

func (b *builder) bootstrap() []int {
	n := b.ds.Len()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = b.rng.IntN(n)
	}
	return rows
}

func (b *builder) build(rows []int) Tree {
	b.nodes = b.nodes[:0]
	b.grow(rows, 0)
	return Tree{Nodes: slices.Clone(b.nodes)}
}

// grow appends the subtree for rows and returns its root index.
func (b *builder) grow(rows []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{})

	pos := b.positives(rows)
	prob := float64(pos) / float64(len(rows))
	if depth >= b.p.MaxDepth || pos == 0 || pos == len(rows) || len(rows) < 2*b.p.MinLeaf {
		b.nodes[idx] = Node{Leaf: true, Prob: prob}
		return idx
	}

	s, ok := b.bestSplit(rows, pos)
	if !ok {
		b.nodes[idx] = Node{Leaf: true, Prob: prob}
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if b.ds.X[r][s.feature] <= s.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx] = Node{Feature: s.feature, Threshold: s.threshold, Left: l, Right: r}
	return idx
}

func (b *builder) positives(rows []int) int {
	n := 0
	for _, r := range rows {
		n += b.ds.Y[r]
	}
	return n
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

// bestSplit scans mtry randomly chosen features for the threshold with the
// lowest weighted Gini impurity. It fails when no candidate improves on the
// parent.
func (b *builder) bestSplit(rows []int, pos int) (split, bool) {
	n := len(rows)
	best := split{impurity: gini(pos, n)}
	found := false

	sorted := make([]int, n)
	for _, f := range b.rng.Perm(len(b.ds.Features))[:b.mtry] {
		copy(sorted, rows)
		slices.SortFunc(sorted, func(a, c int) int {
			va, vc := b.ds.X[a][f], b.ds.X[c][f]
			switch {
			case va < vc:
				return -1
			case va > vc:
				return 1
			}
			return 0
		})

		leftPos := 0
		for i := 0; i < n-1; i++ {
			leftPos += b.ds.Y[sorted[i]]
			nl := i + 1
			v, next := b.ds.X[sorted[i]][f], b.ds.X[sorted[i+1]][f]
			if v == next || nl < b.p.MinLeaf || n-nl < b.p.MinLeaf {
				continue
			}
			nr := n - nl
			imp := (float64(nl)*gini(leftPos, nl) + float64(nr)*gini(pos-leftPos, nr)) / float64(n)
			if imp < best.impurity-1e-12 {
				best = split{feature: f, threshold: (v + next) / 2, impurity: imp}
				found = true
			}
		}
	}
	return best, found
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}
