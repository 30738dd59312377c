package weather

import (
	"strings"

	"github.com/i474232898/weathercast/internal/common"
)

// Classify derives a Condition from a free-text description. Keywords are
// tested in a fixed order, so "rain with clouds" yields Clouds. Unrecognized
// text yields Clouds.
func Classify(description string) Condition {
	desc := strings.ToLower(description)
	switch {
	case common.HasAny(desc, "sun", "clear"):
		return ConditionClear
	case common.HasAny(desc, "cloud"):
		return ConditionClouds
	case common.HasAny(desc, "rain"):
		return ConditionRain
	case common.HasAny(desc, "snow"):
		return ConditionSnow
	case common.HasAny(desc, "storm", "thunder"):
		return ConditionThunderstorm
	case common.HasAny(desc, "mist", "fog"):
		return ConditionMist
	default:
		return ConditionClouds
	}
}
