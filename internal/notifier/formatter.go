package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// FormatAlert renders a primary alert as a Telegram HTML message.
func FormatAlert(alert model.Alert, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>Crypto alert: %s - %s</b>\n", html.EscapeString(alert.Symbol), html.EscapeString(alert.Timeframe)))
	b.WriteString(fmt.Sprintf("⏰ Time: %s\n\n", now.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("⚡️ <b>Signals (%d confirmations):</b>\n", alert.ConfirmationCount))
	for _, line := range alert.Lines {
		b.WriteString(html.EscapeString(line))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n💪 <b>Strength:</b> %s\n", alert.Strength))
	b.WriteString(fmt.Sprintf("#CryptoAlert #%s #%s", hashtag(alert.Symbol), hashtag(alert.Timeframe)))

	return b.String()
}

// FormatDigest renders the advanced and momentum signals. It returns an empty
// string for an empty digest.
func FormatDigest(d model.Digest) string {
	if d.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>ADVANCED PATTERNS</b> %s - %s\n\n", html.EscapeString(d.Symbol), html.EscapeString(d.Timeframe)))
	for _, s := range d.Signals {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", StrengthMarker(s.Strength), html.EscapeString(s.Type), html.EscapeString(s.Message)))
	}

	if len(d.Momentum) > 0 {
		b.WriteString("\n📊 <b>MOMENTUM</b>\n\n")
		for _, s := range d.Momentum {
			b.WriteString(fmt.Sprintf("%s %s: %s\n", DirectionMarker(s.Polarity), html.EscapeString(s.Type), html.EscapeString(s.Message)))
		}
	}

	if len(d.Levels) > 0 {
		names := make([]string, 0, len(d.Levels))
		for name := range d.Levels {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s %.2f", name, d.Levels[name])
		}
		b.WriteString("\n📐 <b>Levels:</b> ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	return b.String()
}

// StrengthMarker maps a signal strength to a colored dot.
func StrengthMarker(strength float64) string {
	switch {
	case strength > 0.7:
		return "🔴"
	case strength > 0.5:
		return "🟡"
	default:
		return "🟢"
	}
}

// DirectionMarker maps polarity to a chart arrow. Anything not bullish reads as down.
func DirectionMarker(p model.Polarity) string {
	if p == model.Bullish {
		return "📈"
	}
	return "📉"
}

func hashtag(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '-' || r == ' ' {
			return '_'
		}
		return r
	}, s)
}
