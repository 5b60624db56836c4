package model

// Polarity is the directional bias of a finding.
type Polarity string

const (
	Bullish Polarity = "bullish"
	Bearish Polarity = "bearish"
	Neutral Polarity = "neutral"
)

// PatternKind classifies chart patterns.
type PatternKind string

const (
	Reversal     PatternKind = "reversal"
	Continuation PatternKind = "continuation"
	NeutralKind  PatternKind = "neutral"
)

// LevelRole tells whether a price level acts as support or resistance.
type LevelRole string

const (
	Support    LevelRole = "support"
	Resistance LevelRole = "resistance"
)

// Finding is a single structured detector output.
// The set of implementations is closed; consumers switch on the concrete type.
type Finding interface {
	isFinding()
}

// PricePattern is a chart-pattern result such as Double Top or Wedge.
type PricePattern struct {
	Name       string
	Kind       PatternKind
	Detected   bool
	Strength   float64
	Variant    string // Ascending, Rising, ...
	Attributes map[string]float64
}

// CandleSignal marks a candlestick pattern at a given index of the series.
type CandleSignal struct {
	Index    int
	Type     string
	Strength float64
	Polarity Polarity
}

// Level is a horizontal support or resistance price.
type Level struct {
	Price    float64
	Role     LevelRole
	Strength float64
	Source   string
}

// Trendline connects the two most recent swing points.
type Trendline struct {
	Direction  string // up, down
	StartPrice float64
	EndPrice   float64
	Slope      float64
	Strength   float64
}

// OscillatorReading is the latest value of an oscillator with its qualitative label.
type OscillatorReading struct {
	Name    string
	Current float64
	Signal  string
}

// FibLevel is one retracement or extension price.
type FibLevel struct {
	Label string
	Price float64
	Near  bool
}

// Gap status values.
const (
	GapUnfilled = "unfilled"
	GapFilled   = "filled"
)

// Gap is a three-candle fair value gap between Start and End.
type Gap struct {
	Index  int
	Start  float64
	End    float64
	Status string
}

// Wave is one leg of an Elliott count.
type Wave struct {
	Label string
	Start float64
	End   float64
	Kind  string // impulsive, corrective
}

// VolumeSignal is a rule hit from the volume analyzer.
type VolumeSignal struct {
	Type     string
	Message  string
	Strength float64
	Polarity Polarity
}

// GannAngle describes one fixed Gann angle.
type GannAngle struct {
	Name         string
	Degrees      float64
	PricePerUnit float64
	TimePerUnit  float64
}

// ProfileBin is one price bucket of the volume profile.
type ProfileBin struct {
	Lower      float64
	Upper      float64
	Volume     float64
	HighVolume bool
}

func (PricePattern) isFinding()      {}
func (CandleSignal) isFinding()      {}
func (Level) isFinding()             {}
func (Trendline) isFinding()         {}
func (OscillatorReading) isFinding() {}
func (FibLevel) isFinding()          {}
func (Gap) isFinding()               {}
func (Wave) isFinding()              {}
func (VolumeSignal) isFinding()      {}
func (GannAngle) isFinding()         {}
func (ProfileBin) isFinding()        {}
