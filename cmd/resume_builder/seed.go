package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/project"
	"github.com/spf13/cobra"
)

var (
	seedName     string
	seedTemplate string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a sample project in the store",
	Long:  `Create a new project pre-filled with the sample resume, useful for demos and for smoke-testing a fresh deployment.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedName, "name", "Untitled Resume", "Project name")
	seedCmd.Flags().StringVar(&seedTemplate, "template", "classic", "Template: classic, modern, or creative")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	tmpl, err := project.ParseTemplate(seedTemplate)
	if err != nil {
		return err
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

	p := project.New(tmpl, seedName)
	if err := st.SaveProject(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Created project %s (%s, %s template)\n", p.ID, p.Name, p.Template)
	return nil
}
