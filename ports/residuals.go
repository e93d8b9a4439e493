package ports

import (
	"context"
)

// ResidualSource reads one column of normalized residuals from a file.
// Columns are 1-based.
type ResidualSource interface {
	ReadColumn(ctx context.Context, path string, column int) ([]float64, error)
}
