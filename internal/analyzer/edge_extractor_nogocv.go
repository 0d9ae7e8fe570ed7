//go:build !gocv

package analyzer

import "fmt"

func newGoCVExtractor(low, high float64) (EdgeExtractor, error) {
	return nil, fmt.Errorf("%w: edge backend %q requires building with -tags gocv",
		ErrInvalidConfiguration, BackendGoCV)
}
