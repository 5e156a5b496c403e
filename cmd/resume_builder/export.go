package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/pagination"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	exportOut      string
	exportAll      bool
	exportParallel int
)

var exportCmd = &cobra.Command{
	Use:   "export [project-id...]",
	Short: "Export projects to PDF",
	Long:  `Render one or more projects with their active templates and print them to PDF files. Requires Chrome/Chromium on the system.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "Directory to write PDF files into")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every project in the store")
	exportCmd.Flags().IntVar(&exportParallel, "parallel", 2, "Number of concurrent browser renders")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportAll && len(args) == 0 {
		return fmt.Errorf("specify project ids or --all")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ids := args
	if exportAll {
		metas, err := st.ListMetadata(ctx)
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, m := range metas {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no projects to export")
	}

	if err := os.MkdirAll(exportOut, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}
	estimator := pagination.New()
	exporter := export.NewWithTimeout(time.Duration(cfg.ExportTimeoutSeconds) * time.Second)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportParallel)
	for _, id := range ids {
		g.Go(func() error {
			return exportOne(gctx, st, renderer, estimator, exporter, id)
		})
	}
	return g.Wait()
}

func exportOne(ctx context.Context, st store.Store, renderer *render.Renderer, estimator *pagination.Estimator, exporter *export.Exporter, id string) error {
	p, err := st.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project not found: %s", id)
	}

	breaks := estimator.Estimate(p.Resume, pagination.NewTextMeasurer(p.Styles))
	html, err := renderer.Render(p.Template, p.Resume, p.Styles, render.Options{Breaks: breaks})
	if err != nil {
		return fmt.Errorf("render %s: %w", id, err)
	}
	if err := render.AuditSections(html, p.Resume); err != nil {
		return fmt.Errorf("audit %s: %w", id, err)
	}

	pdf, err := exporter.PDF(ctx, html)
	if err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}

	out := filepath.Join(exportOut, p.Name+".pdf")
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Printf("Exported %s (%d pages estimated) to %s", p.Name, pagination.PageCount(breaks), out)
	return nil
}
