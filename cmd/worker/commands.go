package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cerroazul/gestao-obras/config"
	"github.com/cerroazul/gestao-obras/internal/bootstrap"
	"github.com/cerroazul/gestao-obras/internal/projects/repository"
	"github.com/cerroazul/gestao-obras/internal/report"
	"github.com/cerroazul/gestao-obras/internal/storage/postgres"
)

func mustConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// RunMigrate applies the projects schema.
func RunMigrate(_ []string) {
	cfg := mustConfig()
	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal(err)
	}
	fmt.Println("schema up to date")
}

func loadRepository(ctx context.Context, cfg *config.Config) *repository.ProjectRepository {
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	repo := repository.NewProjectRepository(repository.NewPostgresStore(db, cfg.Database.StoreTimeout), nil)
	if err := repo.Refresh(ctx); err != nil {
		log.Fatal(err)
	}
	return repo
}

// RunList prints the projects matching an optional search query.
func RunList(args []string) {
	ctx := context.Background()
	repo := loadRepository(ctx, mustConfig())

	items := repo.Search(strings.Join(args, " "))
	fmt.Printf("Projects (%d):\n", len(items))
	for _, p := range items {
		fmt.Printf(" - [%s] %s, %s (%.0f%%)\n", p.ID, p.Name, p.Location, p.Progress)
	}
}

// RunReport writes the report of one project to a file. A .pdf output path
// prints through the configured browser.
func RunReport(args []string) {
	if len(args) < 2 {
		log.Fatal("usage: report <projectID> <out.html|out.pdf>")
	}
	id, out := args[0], args[1]

	cfg := mustConfig()
	ctx := context.Background()
	repo := loadRepository(ctx, cfg)

	p, ok := repo.Get(id)
	if !ok {
		log.Fatalf("project %s not found", id)
	}

	body, err := report.Render(p, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	if strings.HasSuffix(strings.ToLower(out), ".pdf") {
		printer := report.NewRodPrinter(cfg.Report.ChromeBin, cfg.Report.ChromeControlURL, nil)
		defer func() { _ = printer.Close() }()

		body, err = printer.PrintPDF(ctx, body)
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := os.WriteFile(out, body, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote: %s (%s)\n", out, report.DocumentNumber(p.ID))
}
