package risk

import "ProjectQuake/internal/entity"

// SelectRisky reduces a stream of detections, possibly spanning several
// analysis calls, to the distinct labels worth securing.
//
// Detections sharing a track id are collapsed to the most recent sighting:
// the last occurrence of an id wins, including its risk, so an object whose
// latest reading dropped below the threshold is excluded even if an earlier
// sighting passed. Identity-less detections (track id 0) follow the
// configured policy. The returned labels are distinct and appear in
// first-appearance order of their surviving entries.
func SelectRisky(detections []entity.Detection, threshold float64, policy UntrackedPolicy) []string {
	type sighting struct {
		label string
		risk  float64
	}

	latest := make(map[int]sighting)
	var order []int
	var untracked []sighting

	for _, d := range detections {
		if d.TrackID == 0 {
			if policy == UntrackedKeep {
				untracked = append(untracked, sighting{d.Label, d.Risk})
			}
			continue
		}
		if _, seen := latest[d.TrackID]; !seen {
			order = append(order, d.TrackID)
		}
		latest[d.TrackID] = sighting{d.Label, d.Risk}
	}

	var labels []string
	seenLabel := make(map[string]bool)
	keep := func(s sighting) {
		if s.risk > threshold && !seenLabel[s.label] {
			seenLabel[s.label] = true
			labels = append(labels, s.label)
		}
	}

	for _, id := range order {
		keep(latest[id])
	}
	for _, s := range untracked {
		keep(s)
	}

	return labels
}
