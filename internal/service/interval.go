package service

import (
	"sort"

	"github.com/classhour/backend/internal/model"
)

// intersect returns the overlap of two ranges. ok is false when the overlap
// is empty or inverted.
func intersect(a, b model.TimeRange) (model.TimeRange, bool) {
	out := model.TimeRange{
		StartMinute: maxInt(a.StartMinute, b.StartMinute),
		EndMinute:   minInt(a.EndMinute, b.EndMinute),
	}
	if out.StartMinute >= out.EndMinute {
		return model.TimeRange{}, false
	}
	return out, true
}

// subtract removes busy from r, returning the zero, one or two remainders.
func subtract(r, busy model.TimeRange) []model.TimeRange {
	if !r.Overlaps(busy) {
		return []model.TimeRange{r}
	}

	var out []model.TimeRange
	if r.StartMinute < busy.StartMinute {
		out = append(out, model.TimeRange{StartMinute: r.StartMinute, EndMinute: busy.StartMinute})
	}
	if busy.EndMinute < r.EndMinute {
		out = append(out, model.TimeRange{StartMinute: busy.EndMinute, EndMinute: r.EndMinute})
	}
	return out
}

// subtractAll removes every busy range from every candidate.
func subtractAll(ranges, busy []model.TimeRange) []model.TimeRange {
	out := ranges
	for _, b := range busy {
		var next []model.TimeRange
		for _, r := range out {
			next = append(next, subtract(r, b)...)
		}
		out = next
	}
	return out
}

// normalize sorts ranges by start time, drops empty ones, and merges
// overlapping or touching ranges so duplicates collapse.
func normalize(ranges []model.TimeRange) []model.TimeRange {
	var valid []model.TimeRange
	for _, r := range ranges {
		if r.StartMinute < r.EndMinute {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].StartMinute != valid[j].StartMinute {
			return valid[i].StartMinute < valid[j].StartMinute
		}
		return valid[i].EndMinute < valid[j].EndMinute
	})

	merged := []model.TimeRange{valid[0]}
	for _, r := range valid[1:] {
		last := &merged[len(merged)-1]
		if r.StartMinute <= last.EndMinute {
			if r.EndMinute > last.EndMinute {
				last.EndMinute = r.EndMinute
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
