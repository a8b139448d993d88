package quant

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Performance computes the annualized return and volatility of a weighted
// portfolio from daily mean returns and a daily covariance matrix.
//
//	return     = 252 * wᵀμ
//	volatility = √252 * √(wᵀΣw)
func Performance(weights, meanReturns []float64, cov *mat.SymDense) (annRet, annVol float64, err error) {
	n := len(weights)
	if n == 0 || len(meanReturns) != n || cov == nil || cov.SymmetricDim() != n {
		covDim := 0
		if cov != nil {
			covDim = cov.SymmetricDim()
		}
		return 0, 0, fmt.Errorf("performance: %d weights, %d means, %dx%d covariance: %w",
			n, len(meanReturns), covDim, covDim, ErrDimensionMismatch)
	}

	for i := 0; i < n; i++ {
		annRet += weights[i] * meanReturns[i]
	}
	annRet *= PeriodsPerYear

	w := mat.NewVecDense(n, weights)
	var cw mat.VecDense
	cw.MulVec(cov, w)
	variance := mat.Dot(w, &cw)
	if variance < 0 {
		variance = 0
	}
	annVol = math.Sqrt(variance) * math.Sqrt(PeriodsPerYear)
	return annRet, annVol, nil
}
