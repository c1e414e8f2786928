package badges

import "github.com/ecosnap-app/ecosnap/internal/domain"

// DefaultRules returns the built-in badge set, in display order.
// Prerequisites gate the later milestone badges behind their predecessors.
func DefaultRules() []domain.BadgeRule {
	return []domain.BadgeRule{
		{
			ID:          "first_steps",
			Title:       "First Steps",
			Description: "Log your first eco action",
			Icon:        "🌱",
			Rarity:      domain.RarityCommon,
			Metric:      domain.MetricTotalActions,
			Target:      1,
		},
		{
			ID:          "recycling_hero",
			Title:       "Recycling Hero",
			Description: "Log 10 recycling actions",
			Icon:        "♻️",
			Rarity:      domain.RarityCommon,
			Metric:      domain.MetricCategoryCount,
			Category:    domain.CategoryRecycle,
			Target:      10,
		},
		{
			ID:          "green_streak",
			Title:       "Green Streak",
			Description: "Stay active 7 days in a row",
			Icon:        "🔥",
			Rarity:      domain.RarityRare,
			Metric:      domain.MetricStreakDays,
			Target:      7,
		},
		{
			ID:          "eco_warrior",
			Title:       "Eco Warrior",
			Description: "Log 50 eco actions",
			Icon:        "🛡️",
			Rarity:      domain.RarityEpic,
			Metric:      domain.MetricTotalActions,
			Target:      50,
		},
		{
			ID:          "century_club",
			Title:       "Century Club",
			Description: "Log 100 eco actions",
			Icon:        "💯",
			Rarity:      domain.RarityLegendary,
			Metric:      domain.MetricTotalActions,
			Target:      100,
		},
		{
			ID:          "plant_parent",
			Title:       "Plant Parent",
			Description: "Log 25 planting actions",
			Icon:        "🪴",
			Rarity:      domain.RarityRare,
			Metric:      domain.MetricCategoryCount,
			Category:    domain.CategoryPlant,
			Target:      25,
		},
		{
			ID:          "energy_saver",
			Title:       "Energy Saver",
			Description: "Log 100 energy-saving actions",
			Icon:        "⚡",
			Rarity:      domain.RarityEpic,
			Metric:      domain.MetricCategoryCount,
			Category:    domain.CategoryEnergy,
			Target:      100,
		},
		{
			ID:          "eco_legend",
			Title:       "Eco Legend",
			Description: "Log 500 eco actions",
			Icon:        "🏆",
			Rarity:      domain.RarityMythic,
			Metric:      domain.MetricTotalActions,
			Target:      500,
			Requires:    "century_club",
		},
		{
			ID:          "community_leader",
			Title:       "Community Leader",
			Description: "Earn 2500 total points",
			Icon:        "👑",
			Rarity:      domain.RarityLegendary,
			Metric:      domain.MetricTotalPoints,
			Target:      2500,
			Requires:    "eco_warrior",
		},
	}
}
