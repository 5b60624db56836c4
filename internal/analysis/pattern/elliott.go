package pattern

import (
	"github.com/Alias1177/CryptoAlert/internal/analysis/technical"
	"github.com/Alias1177/CryptoAlert/internal/model"
)

// ElliottFormation is the label of a complete five-wave count.
const ElliottFormation = "1-2-3-4-5 Formation"

// ElliottCount is a simplified impulse-wave reading.
type ElliottCount struct {
	Waves      []model.Wave
	Pattern    string
	Confidence float64
}

// ElliottWaves labels waves 1-5 from the first three valleys and the first
// three peaks taken positionally: v0->p0, p0->v1, v1->p1, p1->v2, v2->p2.
// Whether the points actually alternate in time is not checked.
func ElliottWaves(series model.Series) ElliottCount {
	peaks := technical.Peaks(series.Highs(), technical.DefaultExtremaWindow)
	valleys := technical.Valleys(series.Lows(), technical.DefaultExtremaWindow)
	if len(peaks) < 3 || len(valleys) < 3 {
		return ElliottCount{}
	}

	waves := []model.Wave{
		{Label: "1", Start: valleys[0].Value, End: peaks[0].Value, Kind: "impulsive"},
		{Label: "2", Start: peaks[0].Value, End: valleys[1].Value, Kind: "corrective"},
		{Label: "3", Start: valleys[1].Value, End: peaks[1].Value, Kind: "impulsive"},
		{Label: "4", Start: peaks[1].Value, End: valleys[2].Value, Kind: "corrective"},
		{Label: "5", Start: valleys[2].Value, End: peaks[2].Value, Kind: "impulsive"},
	}
	return ElliottCount{Waves: waves, Pattern: ElliottFormation, Confidence: 0.7}
}
