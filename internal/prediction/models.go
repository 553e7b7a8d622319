package prediction

// DailyObservation is a daily high/low pair. It is used for observed history,
// for external forecast points and for trend-only projections.
type DailyObservation struct {
	Date Date    `json:"date"`
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// Confidence is the qualitative agreement label attached to a prediction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PredictionRecord is the reconciled prediction for a single future day.
//
// SourceHigh and SourceLow carry one entry per configured source. A nil value
// means the source had no point for this date.
type PredictionRecord struct {
	Date          Date                `json:"date"`
	PredictedHigh float64             `json:"predictedHigh"`
	PredictedLow  float64             `json:"predictedLow"`
	SourceHigh    map[string]*float64 `json:"sourceHigh"`
	SourceLow     map[string]*float64 `json:"sourceLow"`
	Agreeing      int                 `json:"agreeingSources"`
	Confidence    Confidence          `json:"confidence"`
}

// HighFrom returns the high reported by source for this record's date.
func (r PredictionRecord) HighFrom(source string) (float64, bool) {
	return lookup(r.SourceHigh, source)
}

// LowFrom returns the low reported by source for this record's date.
func (r PredictionRecord) LowFrom(source string) (float64, bool) {
	return lookup(r.SourceLow, source)
}

func lookup(values map[string]*float64, source string) (float64, bool) {
	v, ok := values[source]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}
