package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	KindRandomForest     = "random_forest"
	KindGradientBoosting = "gradient_boosting"
	KindLinear           = "linear"
)

// leaf marks a node without children in the children arrays.
const leaf = -1

// Tree is a fitted regression tree in the flat array layout of sklearn's tree_ object.
// Node i splits on Feature[i] at Threshold[i]: rows with a value less than or equal to
// the threshold go to ChildrenLeft[i], the others to ChildrenRight[i]. Value[i] is the
// prediction of node i when it is a leaf.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *Tree) validate(nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes, %w", ErrMalformedTree)
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays have different lengths, %w", ErrMalformedTree)
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leaf && right == leaf {
			continue
		}
		// children always come after their parent so the walk terminates
		if left <= i || right <= i || left >= n || right >= n {
			return fmt.Errorf("node %d has children %d and %d, %w", i, left, right, ErrMalformedTree)
		}
		if f := t.Feature[i]; f < 0 || (nFeatures > 0 && f >= nFeatures) {
			return fmt.Errorf("node %d splits on feature %d, %w", i, f, ErrMalformedTree)
		}
	}
	return nil
}

// predict walks a row from the root to a leaf. Features are compared in single precision
// since that is the precision the thresholds were learned in.
func (t *Tree) predict(row []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if float64(float32(row[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// TreeEnsemble is a random forest, averaging its trees, or a gradient boosted ensemble,
// adding the learning rate scaled sum of its trees to the base score.
type TreeEnsemble struct {
	Kind         string   `json:"kind"`
	NFeatures    int      `json:"n_features"`
	Names        []string `json:"feature_names,omitempty"`
	BaseScore    float64  `json:"base_score"`
	LearningRate float64  `json:"learning_rate"`
	Trees        []Tree   `json:"trees"`
}

// Validate checks the ensemble kind and the structure of every tree.
func (e *TreeEnsemble) Validate() error {
	switch e.Kind {
	case KindRandomForest, KindGradientBoosting:
	default:
		return fmt.Errorf("%q, %w", e.Kind, ErrUnknownKind)
	}
	if len(e.Trees) == 0 {
		return ErrEmptyEnsemble
	}
	if e.Names != nil && e.NFeatures > 0 && len(e.Names) != e.NFeatures {
		return fmt.Errorf(
			"%d feature names for %d features, %w",
			len(e.Names), e.NFeatures, ErrFeatureLenMismatch,
		)
	}
	for i := range e.Trees {
		if err := e.Trees[i].validate(e.NumFeatures()); err != nil {
			return fmt.Errorf("tree %d, %w", i, err)
		}
	}
	return nil
}

func (e *TreeEnsemble) NumFeatures() int {
	if e.NFeatures > 0 {
		return e.NFeatures
	}
	return len(e.Names)
}

func (e *TreeEnsemble) FeatureNames() []string {
	return e.Names
}

func (e *TreeEnsemble) Predict(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if len(e.Trees) == 0 {
		return nil, ErrEmptyEnsemble
	}
	m, n := x.Dims()
	if nFeat := e.NumFeatures(); nFeat > 0 && n != nFeat {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, nFeat, ErrFeatureLenMismatch)
	}

	res := make([]float64, m)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		var sum float64
		for j := range e.Trees {
			sum += e.Trees[j].predict(row)
		}
		switch e.Kind {
		case KindGradientBoosting:
			lr := e.LearningRate
			if lr == 0 {
				lr = 1
			}
			res[i] = e.BaseScore + lr*sum
		default:
			res[i] = sum / float64(len(e.Trees))
		}
	}
	return res, nil
}
