package models

// Segment is an opaque activity segment payload.
type Segment struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	AverageGrade float64 `json:"average_grade"`
}

// Activity is a physical-activity record. Scalar fields are monotonic:
// once populated they are never overwritten by a later merge.
type Activity struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Segments         []Segment `json:"segments"`
	AverageHeartrate *float64  `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64  `json:"max_heartrate,omitempty"`
}

// Complete reports whether the record needs no further fetching: both
// heart-rate fields populated and a non-empty segment list.
func (a Activity) Complete() bool {
	return a.AverageHeartrate != nil && a.MaxHeartrate != nil && len(a.Segments) > 0
}

// FillFrom adopts fields from in that this record is missing. Present
// fields are never replaced. Returns true if anything changed.
func (a *Activity) FillFrom(in Activity) bool {
	changed := false
	if a.AverageHeartrate == nil && in.AverageHeartrate != nil {
		a.AverageHeartrate = in.AverageHeartrate
		changed = true
	}
	if a.MaxHeartrate == nil && in.MaxHeartrate != nil {
		a.MaxHeartrate = in.MaxHeartrate
		changed = true
	}
	if len(a.Segments) == 0 && len(in.Segments) > 0 {
		a.Segments = append([]Segment(nil), in.Segments...)
		changed = true
	}
	return changed
}
