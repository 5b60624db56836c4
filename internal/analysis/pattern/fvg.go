package pattern

import "github.com/Alias1177/CryptoAlert/internal/model"

// FairValueGaps finds three-candle imbalances where candle i's high sits below
// candle i+2's low and candle i+1 pushes above candle i. A gap is filled once a
// later close lands back inside [Start, End].
func FairValueGaps(series model.Series) []model.Gap {
	var gaps []model.Gap
	for i := 1; i < len(series)-2; i++ {
		cur, next, third := series[i], series[i+1], series[i+2]
		if !(cur.High < third.Low && next.High > cur.High) {
			continue
		}

		gap := model.Gap{Index: i, Start: cur.High, End: third.Low, Status: model.GapUnfilled}
		for _, later := range series[i+3:] {
			if later.Close >= gap.Start && later.Close <= gap.End {
				gap.Status = model.GapFilled
				break
			}
		}
		gaps = append(gaps, gap)
	}
	return gaps
}

// FVGSignals reports where the latest close sits against each still-open gap.
func FVGSignals(series model.Series, gaps []model.Gap) []model.AdvancedSignal {
	if len(series) == 0 {
		return nil
	}
	price := series.Last().Close

	var out []model.AdvancedSignal
	for _, g := range gaps {
		if g.Status != model.GapUnfilled {
			continue
		}
		switch {
		case price > g.Start:
			out = append(out, model.AdvancedSignal{Type: "FVG", Message: "Fair Value Gap bullish", Strength: 0.7, Polarity: model.Bullish})
		case price < g.End:
			out = append(out, model.AdvancedSignal{Type: "FVG", Message: "Fair Value Gap bearish", Strength: 0.7, Polarity: model.Bearish})
		}
	}
	return out
}
