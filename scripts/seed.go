package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/carepulse/healthcare-analytics/backend/internal/adapters/database"
	"github.com/carepulse/healthcare-analytics/backend/internal/etl"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/clients/postgres"
	"github.com/carepulse/healthcare-analytics/backend/pkg/config"
)

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	episodeRepo := database.NewEpisodeAdapter(pgClient)
	incidentRepo := database.NewIncidentAdapter(pgClient)
	issueRepo := database.NewQualityIssueAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				data_quality_issues,
				safety_incidents,
				patient_episodes
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	seed := int64(envInt("SEED", 42))
	episodeCount := envInt("EPISODE_COUNT", 500)
	incidentCount := envInt("INCIDENT_COUNT", 200)
	issueCount := envInt("ISSUE_COUNT", 300)

	gen := etl.NewGenerator(seed)

	// 1. Seed patient episodes
	episodes := gen.Episodes(episodeCount)
	for _, e := range episodes {
		if err := episodeRepo.Create(ctx, e); err != nil {
			log.Printf("Failed to create episode %s: %v", e.EpisodeID, err)
		}
	}
	log.Printf("Seeded %d patient episodes", len(episodes))

	// 2. Seed safety incidents
	incidents := gen.Incidents(episodes, incidentCount)
	for _, inc := range incidents {
		if err := incidentRepo.Create(ctx, inc); err != nil {
			log.Printf("Failed to create incident %s: %v", inc.IncidentID, err)
		}
	}
	log.Printf("Seeded %d safety incidents", len(incidents))

	// 3. Seed data quality issues
	issues := gen.QualityIssues(episodes, issueCount)
	for _, issue := range issues {
		if err := issueRepo.Create(ctx, issue); err != nil {
			log.Printf("Failed to create quality issue for %s: %v", issue.RecordID, err)
		}
	}
	log.Printf("Seeded %d data quality issues", len(issues))

	log.Println("Seeding complete")
}
