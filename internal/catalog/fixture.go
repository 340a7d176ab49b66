package catalog

import "github.com/jon4hz/modhub/internal/api/models"

// Games are the games offered by the catalog filter, in display order.
var Games = []string{
	"Minecraft",
	"The Elder Scrolls V: Skyrim",
	"Grand Theft Auto V",
	"Fallout 4",
	"The Witcher 3",
}

// Categories are the categories offered by the catalog filter, in display order.
var Categories = []string{
	"Графика",
	"Геймплей",
	"Оружие",
	"Квесты",
	"Персонажи",
}

// Fixture returns the catalog shown when the mods endpoint cannot be reached.
// Every call returns a fresh copy.
func Fixture() []models.Mod {
	return []models.Mod{
		{
			ID:           1,
			Title:        "Ultra HD Texture Pack",
			Game:         "The Elder Scrolls V: Skyrim",
			Category:     "Графика",
			Author:       "ModMaster",
			AuthorAvatar: "MM",
			Downloads:    245000,
			Rating:       4.9,
			Reviews:      1523,
			Version:      "3.2.1",
			Image:        "🎨",
			Requirements: "GPU 4GB+, RAM 16GB",
			Description:  "Полностью переработанные текстуры высокого разрешения для всех объектов в игре.",
			Status:       models.ModStatusApproved,
		},
		{
			ID:           2,
			Title:        "Realistic Weapons Overhaul",
			Game:         "Fallout 4",
			Category:     "Оружие",
			Author:       "GunSmith",
			AuthorAvatar: "GS",
			Downloads:    187000,
			Rating:       4.7,
			Reviews:      892,
			Version:      "2.0.5",
			Image:        "🔫",
			Requirements: "Base Game + DLC",
			Description:  "Реалистичная балансировка оружия с новыми моделями и звуками.",
			Status:       models.ModStatusApproved,
		},
		{
			ID:           3,
			Title:        "Advanced Quest System",
			Game:         "The Witcher 3",
			Category:     "Квесты",
			Author:       "QuestLord",
			AuthorAvatar: "QL",
			Downloads:    156000,
			Rating:       4.8,
			Reviews:      743,
			Version:      "1.8.2",
			Image:        "📜",
			Requirements: "Wild Hunt + Hearts of Stone",
			Description:  "Более 50 новых квестов с уникальными сюжетными линиями и наградами.",
			Status:       models.ModStatusApproved,
		},
		{
			ID:           4,
			Title:        "Performance Boost+",
			Game:         "Grand Theft Auto V",
			Category:     "Геймплей",
			Author:       "SpeedDemon",
			AuthorAvatar: "SD",
			Downloads:    423000,
			Rating:       4.6,
			Reviews:      2134,
			Version:      "4.1.0",
			Image:        "⚡",
			Requirements: "GTA V 1.50+",
			Description:  "Оптимизация производительности без потери качества графики.",
			Status:       models.ModStatusApproved,
		},
		{
			ID:           5,
			Title:        "Character Enhancement Suite",
			Game:         "Minecraft",
			Category:     "Персонажи",
			Author:       "SkinArtist",
			AuthorAvatar: "SA",
			Downloads:    312000,
			Rating:       4.9,
			Reviews:      1876,
			Version:      "2.5.3",
			Image:        "👤",
			Requirements: "Minecraft 1.19+",
			Description:  "Расширенная кастомизация персонажа с новыми анимациями.",
			Status:       models.ModStatusApproved,
		},
		{
			ID:           6,
			Title:        "Lighting Overhaul",
			Game:         "The Elder Scrolls V: Skyrim",
			Category:     "Графика",
			Author:       "LightMage",
			AuthorAvatar: "LM",
			Downloads:    198000,
			Rating:       4.8,
			Reviews:      1245,
			Version:      "3.0.1",
			Image:        "💡",
			Requirements: "SKSE64 Required",
			Description:  "Кинематографичное освещение для атмосферного геймплея.",
			Status:       models.ModStatusApproved,
		},
	}
}
