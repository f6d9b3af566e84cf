package storage

// Storage keys. The strings are the on-disk contract and must not change.
const (
	KeyProspection = "prospection_data"
	KeyArchives    = "prospection_archives"
	KeyIdeas       = "idea_box_data"
	KeyGoals       = "monthly_goals"
	KeyEstimation  = "estimation_data"
	KeyPIN         = "app_pin"
	KeyTheme       = "app_theme"
)

// AllKeys lists every key the application knows about, in display order.
var AllKeys = []string{
	KeyProspection,
	KeyArchives,
	KeyIdeas,
	KeyGoals,
	KeyEstimation,
	KeyPIN,
	KeyTheme,
}

func isKnownKey(key string) bool {
	for _, k := range AllKeys {
		if k == key {
			return true
		}
	}
	return false
}
