package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"points_economy/internal/db"
	"points_economy/internal/domain"
	"points_economy/internal/repository"
)

// Seeds the content catalog: achievements, quests, skills and market items.
// Definitions are upserted by key, so the tool is safe to re-run after
// editing the lists below.
func main() {
	// expects DATABASE_URL env var
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()

	seedAchievements(ctx, repository.NewAchievementRepository(pool))
	seedQuests(ctx, repository.NewQuestRepository(pool))
	seedSkills(ctx, repository.NewSkillRepository(pool))
	seedMarketItems(ctx, repository.NewMarketRepository(pool))

	log.Println("catalog seeded")
}

func seedAchievements(ctx context.Context, repo *repository.AchievementRepository) {
	defs := []*domain.AchievementDefinition{
		{
			Key: "first_habit", Name: "First Step", Description: "Complete your first habit",
			Icon: "👣", TriggerKind: domain.TriggerCount, EventKind: domain.EventHabitCompleted,
			Target: 1, RewardCoins: 10, RewardXP: 25, IsActive: true, SortOrder: 10,
		},
		{
			Key: "habit_builder", Name: "Habit Builder", Description: "Complete 25 habits",
			Icon: "🧱", TriggerKind: domain.TriggerCount, EventKind: domain.EventHabitCompleted,
			Target: 25, RewardCoins: 50, RewardXP: 100, IsActive: true, SortOrder: 20,
		},
		{
			Key: "habit_machine", Name: "Habit Machine", Description: "Complete 100 habits",
			Icon: "⚙️", TriggerKind: domain.TriggerCount, EventKind: domain.EventHabitCompleted,
			Target: 100, RewardCoins: 200, RewardXP: 400, IsActive: true, SortOrder: 30,
		},
		{
			Key: "deep_worker", Name: "Deep Worker", Description: "Finish 10 focus sessions",
			Icon: "🎯", TriggerKind: domain.TriggerCount, EventKind: domain.EventFocusSessionCompleted,
			Target: 10, RewardCoins: 40, RewardXP: 80, IsActive: true, SortOrder: 40,
		},
		{
			Key: "goal_getter", Name: "Goal Getter", Description: "Reach 5 goal milestones",
			Icon: "🏁", TriggerKind: domain.TriggerCount, EventKind: domain.EventGoalMilestoneCompleted,
			Target: 5, RewardCoins: 60, RewardXP: 120, IsActive: true, SortOrder: 50,
		},
		{
			Key: "week_streak", Name: "One Week Strong", Description: "Keep a 7 day activity streak",
			Icon: "🔥", TriggerKind: domain.TriggerStreak, StreakType: domain.StreakDailyActivity,
			Target: 7, RewardCoins: 70, RewardXP: 150, IsActive: true, SortOrder: 60,
		},
		{
			Key: "month_streak", Name: "Unstoppable", Description: "Keep a 30 day activity streak",
			Icon: "🌋", TriggerKind: domain.TriggerStreak, StreakType: domain.StreakDailyActivity,
			Target: 30, RewardCoins: 300, RewardXP: 600, IsActive: true, SortOrder: 70,
		},
		{
			Key: "level_five", Name: "Getting Serious", Description: "Reach level 5",
			Icon: "⭐", TriggerKind: domain.TriggerMilestone, EventKind: domain.EventLevelUp,
			Target: 5, RewardCoins: 50, RewardXP: 0, IsActive: true, SortOrder: 80,
		},
		{
			Key: "level_ten", Name: "Double Digits", Description: "Reach level 10",
			Icon: "🌟", TriggerKind: domain.TriggerMilestone, EventKind: domain.EventLevelUp,
			Target: 10, RewardCoins: 150, RewardXP: 0, IsActive: true, SortOrder: 90,
		},
		{
			// hidden until earned; unlocks off the month streak
			Key: "secret_legend", Name: "Legend", Description: "???",
			Icon: "🗿", TriggerKind: domain.TriggerUnlock, DependencyKey: "month_streak",
			Target: 1, RewardCoins: 500, RewardXP: 1000, IsHidden: true, IsActive: true, SortOrder: 100,
		},
	}

	for _, d := range defs {
		d.ID = uuid.New()
		if _, err := repo.UpsertDefinition(ctx, d); err != nil {
			log.Fatalf("seed achievement %s: %v", d.Key, err)
		}
	}
	log.Printf("achievements: %d\n", len(defs))
}

func seedQuests(ctx context.Context, repo *repository.QuestRepository) {
	defs := []*domain.QuestDefinition{
		{
			Key: "daily_habits", Title: "Daily Routine", Description: "Complete 3 habits today",
			Difficulty: domain.DifficultyEasy, EventKind: domain.EventHabitCompleted,
			Target: 3, Repeat: domain.RepeatDaily, IsActive: true, SortOrder: 10,
		},
		{
			Key: "daily_focus", Title: "Focused Day", Description: "Finish 2 focus sessions today",
			Difficulty: domain.DifficultyMedium, EventKind: domain.EventFocusSessionCompleted,
			Target: 2, Repeat: domain.RepeatDaily, IsActive: true, SortOrder: 20,
		},
		{
			Key: "weekly_grind", Title: "Weekly Grind", Description: "Complete 20 habits this week",
			Difficulty: domain.DifficultyHard, EventKind: domain.EventHabitCompleted,
			Target: 20, Repeat: domain.RepeatWeekly, IsActive: true, SortOrder: 30,
		},
		{
			Key: "weekly_milestones", Title: "Milestone Week", Description: "Reach 3 goal milestones this week",
			Difficulty: domain.DifficultyHard, EventKind: domain.EventGoalMilestoneCompleted,
			Target: 3, Repeat: domain.RepeatWeekly, IsActive: true, SortOrder: 40,
		},
		{
			// rewards left at zero on purpose: paid from difficulty defaults
			Key: "onboarding", Title: "Warming Up", Description: "Complete your first 5 habits",
			Difficulty: domain.DifficultyStarter, EventKind: domain.EventHabitCompleted,
			Target: 5, Repeat: domain.RepeatNone, IsActive: true, SortOrder: 5,
		},
	}

	for _, d := range defs {
		d.ID = uuid.New()
		if _, err := repo.UpsertDefinition(ctx, d); err != nil {
			log.Fatalf("seed quest %s: %v", d.Key, err)
		}
	}
	log.Printf("quests: %d\n", len(defs))
}

func seedSkills(ctx context.Context, repo *repository.SkillRepository) {
	defs := []*domain.SkillDefinition{
		{
			Key: "fitness", Name: "Fitness", Category: domain.SkillHealth,
			MaxLevel: 10, StarsPerLevel: 5, RewardCoins: 250, RewardXP: 500,
			IsActive: true, SortOrder: 10,
		},
		{
			Key: "reading", Name: "Reading", Category: domain.SkillLearning,
			MaxLevel: 10, StarsPerLevel: 5, RewardCoins: 250, RewardXP: 500,
			IsActive: true, SortOrder: 20,
		},
		{
			Key: "deep_work", Name: "Deep Work", Category: domain.SkillProductivity,
			MaxLevel: 10, StarsPerLevel: 5, RewardCoins: 250, RewardXP: 500,
			IsActive: true, SortOrder: 30,
		},
		{
			Key: "writing", Name: "Writing", Category: domain.SkillCreativity,
			MaxLevel: 5, StarsPerLevel: 10, RewardCoins: 250, RewardXP: 500,
			IsActive: true, SortOrder: 40,
		},
		{
			Key: "budgeting", Name: "Budgeting", Category: domain.SkillFinance,
			MaxLevel: 5, StarsPerLevel: 4, RewardCoins: 100, RewardXP: 200,
			IsActive: true, SortOrder: 50,
		},
		{
			Key: "meditation", Name: "Meditation", Category: domain.SkillWellness,
			MaxLevel: 10, StarsPerLevel: 3, RewardCoins: 150, RewardXP: 300,
			IsActive: true, SortOrder: 60,
		},
	}

	for _, d := range defs {
		d.ID = uuid.New()
		if _, err := repo.UpsertDefinition(ctx, d); err != nil {
			log.Fatalf("seed skill %s: %v", d.Key, err)
		}
	}
	log.Printf("skills: %d\n", len(defs))
}

func seedMarketItems(ctx context.Context, repo *repository.MarketRepository) {
	items := []*domain.MarketItem{
		{
			Key: "coffee_break", Name: "Guilt-free Coffee Break", Description: "30 minutes off, no questions asked",
			Category: "break", CostCoins: 20, Icon: "☕", Rarity: domain.RarityCommon,
			IsConsumable: true, UsesPerPurchase: 1, IsAvailable: true, SortOrder: 10,
		},
		{
			Key: "movie_night", Name: "Movie Night", Description: "An evening with zero productivity pressure",
			Category: "break", CostCoins: 80, Icon: "🎬", Rarity: domain.RarityUncommon,
			IsConsumable: true, UsesPerPurchase: 1, IsAvailable: true, SortOrder: 20,
		},
		{
			Key: "sleep_in", Name: "Sleep In Pass", Description: "Skip the morning routine once",
			Category: "break", CostCoins: 120, Icon: "😴", Rarity: domain.RarityRare,
			IsConsumable: true, UsesPerPurchase: 1, IsAvailable: true, SortOrder: 30,
		},
		{
			Key: "takeout_dinner", Name: "Takeout Dinner", Description: "Order in instead of cooking",
			Category: "treat", CostCoins: 60, Icon: "🍜", Rarity: domain.RarityCommon,
			IsConsumable: true, UsesPerPurchase: 1, IsAvailable: true, SortOrder: 40,
		},
		{
			Key: "game_hour", Name: "Gaming Hours", Description: "Three hours of games, pre-paid",
			Category: "treat", CostCoins: 45, Icon: "🎮", Rarity: domain.RarityCommon,
			IsConsumable: true, UsesPerPurchase: 3, IsAvailable: true, SortOrder: 50,
		},
		{
			Key: "golden_badge", Name: "Golden Profile Badge", Description: "Permanent golden frame on your profile",
			Category: "cosmetic", CostCoins: 500, Icon: "🥇", Rarity: domain.RarityEpic,
			IsConsumable: false, IsAvailable: true, SortOrder: 60,
		},
		{
			Key: "founder_title", Name: "Founder Title", Description: "The rarest flex in the catalog",
			Category: "cosmetic", CostCoins: 2000, Icon: "👑", Rarity: domain.RarityLegendary,
			IsConsumable: false, IsAvailable: true, SortOrder: 70,
		},
	}

	created, updated := 0, 0
	for _, m := range items {
		existing, err := repo.GetByKey(ctx, m.Key)
		if err == nil {
			m.ID = existing.ID
			if _, err := repo.Update(ctx, m); err != nil {
				log.Fatalf("update item %s: %v", m.Key, err)
			}
			updated++
			continue
		}

		m.ID = uuid.New()
		if _, err := repo.Create(ctx, m); err != nil {
			log.Fatalf("create item %s: %v", m.Key, err)
		}
		created++
	}
	log.Printf("market items: %d created, %d updated\n", created, updated)
}
