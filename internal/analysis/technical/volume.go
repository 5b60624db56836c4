package technical

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

const profileEdges = 20

// VolumeAnalysis is the combined output of the volume analyzer.
type VolumeAnalysis struct {
	OBV           []float64
	Profile       []model.ProfileBin
	SMA20         float64
	SMA50         float64
	CurrentVolume float64
	Signals       []model.VolumeSignal
}

// AnalyzeVolume runs OBV, the volume profile, volume averages and the volume signal rules.
func AnalyzeVolume(series model.Series) VolumeAnalysis {
	if len(series) == 0 {
		return VolumeAnalysis{}
	}
	volumes := series.Volumes()
	return VolumeAnalysis{
		OBV:           CalculateOBV(series),
		Profile:       VolumeProfile(series),
		SMA20:         latest(SMA(volumes, 20)),
		SMA50:         latest(SMA(volumes, 50)),
		CurrentVolume: series.Last().Volume,
		Signals:       VolumeSignals(series),
	}
}

// CalculateOBV returns on-balance volume: cumulative volume signed by the close-to-close direction.
func CalculateOBV(series model.Series) []float64 {
	obv := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		switch {
		case series[i].Close > series[i-1].Close:
			obv[i] = obv[i-1] + series[i].Volume
		case series[i].Close < series[i-1].Close:
			obv[i] = obv[i-1] - series[i].Volume
		default:
			obv[i] = obv[i-1]
		}
	}
	return obv
}

// VolumeProfile buckets volume by close price between 20 evenly spaced edges.
// A bin is high volume when it exceeds 1.5x the mean candle volume.
func VolumeProfile(series model.Series) []model.ProfileBin {
	if len(series) == 0 {
		return nil
	}
	low, high := series[0].Low, series[0].High
	var totalVolume float64
	for _, c := range series {
		low = math.Min(low, c.Low)
		high = math.Max(high, c.High)
		totalVolume += c.Volume
	}
	if high-low <= 0 {
		return nil
	}
	meanVolume := totalVolume / float64(len(series))

	step := (high - low) / float64(profileEdges-1)
	bins := make([]model.ProfileBin, profileEdges-1)
	for i := range bins {
		bins[i].Lower = low + step*float64(i)
		bins[i].Upper = low + step*float64(i+1)
	}
	last := len(bins) - 1
	for _, c := range series {
		for i := range bins {
			// the top bin is closed so a close at the series high still counts
			if c.Close >= bins[i].Lower && (c.Close < bins[i].Upper || i == last && c.Close <= high) {
				bins[i].Volume += c.Volume
				break
			}
		}
	}
	for i := range bins {
		bins[i].HighVolume = bins[i].Volume > meanVolume*1.5
	}
	return bins
}

// VolumeSignals applies the price/OBV divergence and volume breakout rules to the last two candles.
func VolumeSignals(series model.Series) []model.VolumeSignal {
	if len(series) < 2 {
		return nil
	}
	var signals []model.VolumeSignal

	obv := CalculateOBV(series)
	n := len(series)
	priceUp := series[n-1].Close > series[n-2].Close
	obvUp := obv[n-1] > obv[n-2]

	if priceUp && !obvUp {
		signals = append(signals, model.VolumeSignal{
			Type:     "Divergence",
			Message:  "Price rising while OBV is not - bearish divergence",
			Strength: 0.8,
			Polarity: model.Bearish,
		})
	} else if !priceUp && obvUp {
		signals = append(signals, model.VolumeSignal{
			Type:     "Divergence",
			Message:  "Price falling while OBV rises - bullish divergence",
			Strength: 0.8,
			Polarity: model.Bullish,
		})
	}

	sma20 := latest(SMA(series.Volumes(), 20))
	if !math.IsNaN(sma20) && series[n-1].Volume > sma20*2 {
		polarity := model.Bearish
		if priceUp {
			polarity = model.Bullish
		}
		signals = append(signals, model.VolumeSignal{
			Type:     "Volume Breakout",
			Message:  "Volume spike above twice the 20-period average",
			Strength: 0.7,
			Polarity: polarity,
		})
	}
	return signals
}
