package model

// Stats are aggregate counts by label. Total includes labels outside the
// known set, so Total >= Fake+Real+Uncertain.
type Stats struct {
	Total     int `json:"total"`
	Fake      int `json:"fake"`
	Real      int `json:"real"`
	Uncertain int `json:"uncertain"`
}

// ComputeStats derives Stats from a scan list in a single pass.
func ComputeStats(scans []Scan) Stats {
	st := Stats{Total: len(scans)}
	for _, s := range scans {
		switch s.ResultLabel {
		case LabelFake:
			st.Fake++
		case LabelReal:
			st.Real++
		case LabelUncertain:
			st.Uncertain++
		}
	}
	return st
}
