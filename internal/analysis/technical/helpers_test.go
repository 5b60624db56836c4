package technical

import (
	"math"
	"time"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func generateTestCandles(count int, generator func(i int) model.Candle) model.Series {
	candles := make(model.Series, count)
	for i := 0; i < count; i++ {
		c := generator(i)
		if c.Timestamp.IsZero() {
			c.Timestamp = testStart.Add(time.Duration(i) * time.Hour)
		}
		candles[i] = c
	}
	return candles
}

// wavySeries oscillates around 100 with a slow drift so every detector has swings to find.
func wavySeries(count int) model.Series {
	return generateTestCandles(count, func(i int) model.Candle {
		mid := 100 + 8*math.Sin(float64(i)/4) + float64(i)*0.05
		open := mid - math.Cos(float64(i))
		close := mid + math.Cos(float64(i))
		return model.Candle{
			Open:   open,
			High:   math.Max(open, close) + 0.7,
			Low:    math.Min(open, close) - 0.7,
			Close:  close,
			Volume: 1000 + 300*math.Sin(float64(i)/3),
		}
	})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
