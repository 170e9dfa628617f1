package models

// RunStats holds the per-run counters. Every processed row is recorded with exactly
// one outcome, so the outcome counters always add up to Total.
type RunStats struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	NoFolder int `json:"no_folder"`
	NoURL    int `json:"no_url"`
	NoPrice  int `json:"no_price"`
	Images   int `json:"images"`
}

func (s *RunStats) Record(outcome Outcome, images int) {
	switch outcome {
	case OutcomeSuccess:
		s.Success++
	case OutcomeNoFolder:
		s.NoFolder++
	case OutcomeNoURL:
		s.NoURL++
	case OutcomeNoPrice:
		s.NoPrice++
	default:
		s.Failed++
	}
	s.Total++
	if images > 0 {
		s.Images += images
	}
}

func (s RunStats) Consistent() bool {
	return s.Success+s.Failed+s.NoFolder+s.NoURL+s.NoPrice == s.Total
}
