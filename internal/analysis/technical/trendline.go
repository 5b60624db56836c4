package technical

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// Trendlines holds the lines drawn through recent swing points.
type Trendlines struct {
	Up         []model.Trendline
	Down       []model.Trendline
	Horizontal []model.Level
}

// DrawTrendlines connects the two most recent valleys (uptrend) and the two most
// recent peaks (downtrend). A horizontal level is flagged when the latest close
// is within 2% of a trend endpoint.
func DrawTrendlines(series model.Series) Trendlines {
	var tl Trendlines
	if len(series) == 0 {
		return tl
	}

	if v := LastN(Valleys(series.Lows(), DefaultExtremaWindow), 2); v != nil {
		tl.Up = append(tl.Up, model.Trendline{
			Direction:  "up",
			StartPrice: v[0].Value,
			EndPrice:   v[1].Value,
			Slope:      (v[1].Value - v[0].Value) / 2,
			Strength:   0.7,
		})
	}
	if p := LastN(Peaks(series.Highs(), DefaultExtremaWindow), 2); p != nil {
		tl.Down = append(tl.Down, model.Trendline{
			Direction:  "down",
			StartPrice: p[0].Value,
			EndPrice:   p[1].Value,
			Slope:      (p[1].Value - p[0].Value) / 2,
			Strength:   0.7,
		})
	}

	price := series.Last().Close
	if price == 0 {
		return tl
	}
	if len(tl.Up) > 0 && math.Abs(price-tl.Up[len(tl.Up)-1].EndPrice)/price < NearLevelTolerance {
		tl.Horizontal = append(tl.Horizontal, model.Level{Price: price, Role: model.Resistance, Strength: 0.6, Source: "uptrend"})
	}
	if len(tl.Down) > 0 && math.Abs(price-tl.Down[len(tl.Down)-1].EndPrice)/price < NearLevelTolerance {
		tl.Horizontal = append(tl.Horizontal, model.Level{Price: price, Role: model.Support, Strength: 0.6, Source: "downtrend"})
	}
	return tl
}
