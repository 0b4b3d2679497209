package transform

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/logger"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// Config controls which columns feed the PCA and how they are conditioned.
type Config struct {
	// Include restricts the feature set to the named columns; empty means
	// every scalar float column.
	Include []string
	// Exclude removes columns from the feature set after Include.
	Exclude []string

	// Center subtracts each feature's mean. Standardize additionally divides
	// by the sample standard deviation; constant features are left centered.
	Center      bool
	Standardize bool
}

// PCA projects the numeric columns of a table onto their principal
// components. Rows containing non-finite values are dropped; the output
// table has one PC column per retained component and inherits the kept rows'
// EntityIDs.
type PCA struct {
	cfg Config
}

// NewPCA builds the transform.
func NewPCA(cfg Config) *PCA {
	return &PCA{cfg: cfg}
}

// Apply materializes the feature columns, filters non-finite rows, and
// returns a derived table over the kept rows. The SVD itself runs lazily on
// first access to the output values.
func (p *PCA) Apply(view *table.TableView) (*table.TableView, error) {
	if view == nil {
		return nil, errors.NewConfigurationError("pca requires a table")
	}

	features, err := p.featureColumns(view)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, errors.NewConfigurationError("pca found no scalar float columns to project")
	}

	columns := make([][]float64, len(features))
	for i, name := range features {
		values, err := table.Values[float64](view, name)
		if err != nil {
			return nil, errors.Wrapf(err, "pca feature %q", name)
		}
		columns[i] = values
	}

	rows := view.RowCount()
	kept := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		finite := true
		for _, col := range columns {
			if r >= len(col) || !isFinite(col[r]) {
				finite = false
				break
			}
		}
		if finite {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, errors.NewConfigurationError("pca kept no rows after dropping non-finite values")
	}

	data := mat.NewDense(len(kept), len(features), nil)
	for i, r := range kept {
		for j, col := range columns {
			data.Set(i, j, col[r])
		}
	}
	p.condition(data)

	nComponents := len(features)
	if len(kept) < nComponents {
		nComponents = len(kept)
	}

	logger.Debugw("pca input assembled",
		"features", len(features),
		"rows_in", rows,
		"rows_kept", len(kept),
		"components", nComponents)

	scores := &pcaScores{data: data, components: nComponents}
	b := table.NewBuilder(table.NewRangeSelector(len(kept)), view.Resolver())
	table.AddColumns[float64](b, "", scores)
	out, err := b.Build()
	if err != nil {
		return nil, err
	}

	if ids := view.EntityIDs(); len(ids) > 0 {
		keptIDs := make([][]source.EntityID, len(kept))
		hasIDs := false
		for i, r := range kept {
			if r < len(ids) {
				keptIDs[i] = ids[r]
				hasIDs = hasIDs || len(ids[r]) > 0
			}
		}
		// EntityIDs is row-count long even without provenance; an override
		// of all-empty rows would make the output claim provenance it lacks.
		if hasIDs {
			out.SetDirectEntityIDs(keptIDs)
		}
	}
	return out, nil
}

// featureColumns resolves the include/exclude filters against the table's
// scalar float columns, preserving table order.
func (p *PCA) featureColumns(view *table.TableView) ([]string, error) {
	included := func(name string) bool {
		if len(p.cfg.Include) == 0 {
			return true
		}
		for _, n := range p.cfg.Include {
			if n == name {
				return true
			}
		}
		return false
	}
	excluded := func(name string) bool {
		for _, n := range p.cfg.Exclude {
			if n == name {
				return true
			}
		}
		return false
	}

	var out []string
	for _, name := range view.ColumnNames() {
		typ, err := view.ColumnType(name)
		if err != nil {
			return nil, err
		}
		if typ != table.ElementFloat64 {
			continue
		}
		if included(name) && !excluded(name) {
			out = append(out, name)
		}
	}

	for _, name := range p.cfg.Include {
		if !view.HasColumn(name) {
			return nil, errors.Wrapf(errors.ErrColumnNotFound, "pca include column %q", name)
		}
	}
	return out, nil
}

// condition applies centering and standardization in place.
func (p *PCA) condition(data *mat.Dense) {
	if !p.cfg.Center && !p.cfg.Standardize {
		return
	}
	n, d := data.Dims()
	for j := 0; j < d; j++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += data.At(i, j)
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			data.Set(i, j, data.At(i, j)-mean)
		}

		if !p.cfg.Standardize || n < 2 {
			continue
		}
		var sq float64
		for i := 0; i < n; i++ {
			v := data.At(i, j)
			sq += v * v
		}
		std := math.Sqrt(sq / float64(n-1))
		if std == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			data.Set(i, j, data.At(i, j)/std)
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// pcaScores is the multi-output computer backing the derived table's PC
// columns. The SVD runs once, on first batch access, and is memoized for
// the computer's lifetime; ClearCache on the derived table recomputes the
// projection but the fit is deterministic for the captured matrix.
type pcaScores struct {
	data       *mat.Dense
	components int

	once   sync.Once
	scores *mat.Dense
	fitErr error
}

func (s *pcaScores) fit() {
	var svd mat.SVD
	if !svd.Factorize(s.data, mat.SVDThin) {
		s.fitErr = errors.New("pca singular value decomposition failed to converge")
		return
	}
	var v mat.Dense
	svd.VTo(&v)

	rows, _ := s.data.Dims()
	projection := v.Slice(0, v.RawMatrix().Rows, 0, s.components)
	scores := mat.NewDense(rows, s.components, nil)
	scores.Mul(s.data, projection)
	s.scores = scores
}

func (s *pcaScores) ComputeBatch(plan *table.ExecutionPlan) ([][]float64, error) {
	s.once.Do(s.fit)
	if s.fitErr != nil {
		return nil, s.fitErr
	}

	rows, _ := s.scores.Dims()
	if plan.RowCount() != rows {
		return nil, errors.NewPlanMismatchError("PCA", fmt.Sprintf("%d rows", rows))
	}

	out := make([][]float64, s.components)
	for j := range out {
		col := make([]float64, rows)
		mat.Col(col, j, s.scores)
		out[j] = col
	}
	return out, nil
}

// OutputNames enumerates "PC1".."PCk".
func (s *pcaScores) OutputNames() []string {
	out := make([]string, s.components)
	for i := range out {
		out[i] = fmt.Sprintf("PC%d", i+1)
	}
	return out
}

func (s *pcaScores) SourceDependency() string { return "" }
func (s *pcaScores) Dependencies() []string   { return nil }
