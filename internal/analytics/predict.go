package analytics

import "github.com/craftwatch/craftwatch/internal/model"

// minPredictionPoints is the fewest observations a linear extrapolation is
// trusted with; below it the prediction degrades to the last observed value.
const minPredictionPoints = 3

// confidenceFullSamples is the sample count at which the sample-size factor
// of the confidence score saturates at 1.
const confidenceFullSamples = 12

// predict extrapolates the fitted line forward by horizonHours. Sparse or
// degenerate series never fail: they produce the last observed value with
// zero confidence.
func predict(points []point, metric string, horizonHours int, cfg Config) model.Prediction {
	prediction := model.Prediction{
		Metric:       metric,
		HorizonHours: horizonHours,
	}

	fit, ok := fitLine(points)
	if !ok || fit.n < minPredictionPoints {
		// Flat extrapolation, not a linear guess from noise.
		prediction.PredictedValue = round2(fit.lastValue)
		prediction.Confidence = 0
		return prediction
	}

	x := float64(fit.lastTS-fit.firstTS) + float64(horizonHours)*3600
	prediction.PredictedValue = round2(fit.intercept + fit.slope*x)
	prediction.Confidence = round2(confidence(fit))
	return prediction
}

// confidence scores a fit in [0,1]: more points and lower residual variance
// relative to the observed value range mean higher confidence.
func confidence(fit linearFit) float64 {
	sampleFactor := clamp01(float64(fit.n) / confidenceFullSamples)

	valueRange := fit.valueMax - fit.valueMin
	residualFactor := 1.0
	if valueRange > 0 {
		residualFactor = clamp01(1 - fit.rmse/valueRange)
	} else if fit.rmse > 0 {
		residualFactor = 0
	}

	return clamp01(sampleFactor * residualFactor)
}
