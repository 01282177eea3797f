package roster

import "time"

// Summarize computes display counts over the interactions of an
// already-filtered record set, optionally restricted to an inclusive date
// range. Aggregation always reflects the visible set, not the full universe.
func Summarize(records []FusedPersonRecord, from, to *time.Time) Summary {
	summary := Summary{
		ByKind:     make(map[string]int),
		MadeByKind: make(map[string]int),
	}
	for _, record := range records {
		for _, interaction := range record.Interactions {
			if !inRange(interaction.OccurredOn, from, to) {
				continue
			}
			summary.TotalInteractions++
			kind := interaction.Kind
			if kind == "" {
				kind = "unspecified"
			}
			summary.ByKind[kind]++
			if interaction.CommitmentMade == TriYes {
				summary.CommitmentsMade++
				summary.MadeByKind[kind]++
			}
		}
	}
	return summary
}

func inRange(when time.Time, from, to *time.Time) bool {
	if from != nil && when.Before(*from) {
		return false
	}
	if to != nil && when.After(*to) {
		return false
	}
	return true
}
