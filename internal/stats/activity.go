package stats

// ActivityLevel buckets one week of commits for the dashboard heat chart.
type ActivityLevel struct {
	Week  int    `json:"week"`
	Count int    `json:"count"`
	Level int    `json:"level"` // 0-4
}

// ActivityLevels converts weekly commit counts into chart levels. Weeks are
// numbered from the oldest week in the window, matching the order the
// participation endpoint returns.
func ActivityLevels(weeklyCommits []int) []ActivityLevel {
	activity := make([]ActivityLevel, 0, len(weeklyCommits))
	for i, count := range weeklyCommits {
		level := 0
		if count > 0 {
			switch {
			case count <= 2:
				level = 1
			case count <= 5:
				level = 2
			case count <= 10:
				level = 3
			default:
				level = 4
			}
		}

		activity = append(activity, ActivityLevel{
			Week:  i,
			Count: count,
			Level: level,
		})
	}
	return activity
}
