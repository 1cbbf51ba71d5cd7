package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"snippetnav/internal/config"
	"snippetnav/internal/repository/postgres"
	snippetsRepo "snippetnav/internal/repository/postgres/snippets"
	"snippetnav/internal/seed"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't load the fixture")
	clearData := flag.Bool("clear-data", false, "Clear the fixture project's folders and snippets (keep schema)")
	fixturePath := flag.String("fixture", "", "Fixture YAML to load instead of the built-in sample")
	userID := flag.String("user", "", "Owner of the seeded project (default: $DEV_USER_ID)")
	flag.Parse()

	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	cfg := config.Load()
	if *userID == "" {
		*userID = cfg.DevUserID
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg, "seed")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := seed.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := seed.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	log.Println("🧹 Clearing existing folders and snippets...")
	if err := seed.ClearProject(ctx, pool, tables, fixture.Project.ID); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("✅ Data cleared successfully")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	seeder := seed.NewSeeder(
		snippetsRepo.NewProjectRepository(repoConfig),
		snippetsRepo.NewFolderRepository(repoConfig),
		snippetsRepo.NewSnippetRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	stats, err := seeder.Seed(ctx, *userID, fixture)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("🎉 Seeding complete! project %s: %d folders, %d snippets", fixture.Project.ID, stats.Folders, stats.Snippets)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.LoadDefaultFixture()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.ParseFixture(data)
}
