// Package main seeds the database with the park's sample events.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kikuna-park/backend/config"
	"github.com/kikuna-park/backend/internal/events"
	"github.com/kikuna-park/backend/internal/models"
	"github.com/kikuna-park/backend/pkg/database"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	repo := events.NewRepository(pool)

	for _, e := range seedEvents() {
		existing, err := repo.FindBySlug(ctx, e.Slug)
		if err != nil {
			logger.Fatal("lookup event", zap.Error(err), zap.String("slug", e.Slug))
		}
		if existing != nil {
			logger.Info("event already seeded", zap.String("slug", e.Slug))
			continue
		}
		if err := repo.Create(ctx, &e); err != nil {
			logger.Fatal("create event", zap.Error(err), zap.String("slug", e.Slug))
		}
		logger.Info("event created", zap.String("slug", e.Slug), zap.String("title", e.Title))
	}
}

func seedEvents() []models.Event {
	return []models.Event{
		{
			Title:                "🌸桜まつり",
			Slug:                 "sakura-matsuri",
			Date:                 date(2026, 4, 5, 10),
			ApplicationStartDate: datePtr(2026, 2, 1, 0),
			IsPublic:             true,
			Status:               models.EventStatusOpen,
			Location:             "菊名桜山公園 メインステージ",
			Description:          "春の桜を愛でながら、地域の皆様と一緒に楽しむお祭りです。出店、演奏会など様々な形でご参加いただけます。",
		},
		{
			Title:                "♬ Forest Jazz",
			Slug:                 "forest-jazz",
			Date:                 date(2026, 7, 19, 18),
			ApplicationStartDate: datePtr(2026, 5, 1, 0),
			IsPublic:             true,
			Status:               models.EventStatusOpen,
			Location:             "菊名桜山公園 野外ステージ",
			Description:          "夏の夕涼みとともに、緑に囲まれた公園でジャズを楽しむイベントです。",
		},
		{
			Title:                "🍁感謝祭",
			Slug:                 "thanksgiving-festival",
			Date:                 date(2026, 10, 25, 13),
			ApplicationStartDate: datePtr(2026, 8, 1, 0),
			IsPublic:             true,
			Status:               models.EventStatusOpen,
			Location:             "菊名桜山公園 全域",
			Description:          "一年間の活動を振り返り、地域の皆様への感謝を込めたお祭りです。収穫体験、展示、出店など多彩なプログラムをご用意しています。",
		},
		{
			Title:       "🎄Forest Christmas",
			Slug:        "forest-christmas",
			Date:        date(2026, 12, 13, 16),
			IsPublic:    true,
			Status:      models.EventStatusOpen,
			Location:    "菊名桜山公園 広場",
			Description: "冬の森を彩るあかりとともに、ステージやクラフト、フード出店などが並ぶひととき。",
		},
	}
}

func date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, jst())
}

func datePtr(year int, month time.Month, day, hour int) *time.Time {
	t := date(year, month, day, hour)
	return &t
}

func jst() *time.Location {
	return time.FixedZone("JST", 9*60*60)
}
