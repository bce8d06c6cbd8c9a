package ricecast

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aouyang1/go-ricecast/metrics"
	"github.com/aouyang1/go-ricecast/models"
	"gonum.org/v1/gonum/mat"
)

// Evaluation holds the one step ahead scores of both models and their blend on held out
// rows. Predictions are not clamped.
type Evaluation struct {
	Rows   int             `json:"rows"`
	ModelA *metrics.Scores `json:"model_a"`
	ModelB *metrics.Scores `json:"model_b"`
	Blend  *metrics.Scores `json:"blend"`
}

// Evaluate predicts every row of the split with both models and scores each of them and
// their blend against the split target.
func Evaluate(split *Split, a, b *models.Adapter) (*Evaluation, error) {
	if split.Len() == 0 || split.X == nil {
		return nil, ErrNoTestRows
	}

	n := split.Len()
	predA := make([]float64, n)
	predB := make([]float64, n)
	blend := make([]float64, n)
	for i := 0; i < n; i++ {
		row := mat.Row(nil, i, split.X)
		pa, err := a.PredictOne(row)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i, err)
		}
		pb, err := b.PredictOne(row)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i, err)
		}
		predA[i] = pa
		predB[i] = pb
		blend[i] = models.Blend(pa, pb)
	}

	scoresA, err := metrics.NewScores(predA, split.Y)
	if err != nil {
		return nil, fmt.Errorf("model a, %w", err)
	}
	scoresB, err := metrics.NewScores(predB, split.Y)
	if err != nil {
		return nil, fmt.Errorf("model b, %w", err)
	}
	scoresBlend, err := metrics.NewScores(blend, split.Y)
	if err != nil {
		return nil, fmt.Errorf("blend, %w", err)
	}
	return &Evaluation{
		Rows:   n,
		ModelA: scoresA,
		ModelB: scoresB,
		Blend:  scoresBlend,
	}, nil
}

// TablePrint prints the scores as a right aligned table.
func (e *Evaluation) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Evaluation (%d rows):\n", e.Rows); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "Model\tRMSE\tMAE\tSMAPE\tR2\t\n"); err != nil {
		return err
	}
	for _, row := range []struct {
		name   string
		scores *metrics.Scores
	}{
		{"random_forest", e.ModelA},
		{"lightgbm", e.ModelB},
		{"blended", e.Blend},
	} {
		if _, err := fmt.Fprintf(tbl, "%s\t%.2f\t%.2f\t%.2f%%\t%.4f\t\n",
			row.name, row.scores.RMSE, row.scores.MAE, row.scores.SMAPE, row.scores.R2); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
