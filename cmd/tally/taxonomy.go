package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/taxonomy"
)

func taxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Show the account classification hierarchy",
		RunE:  runTaxonomy,
	}
	cmd.Flags().Bool("yaml", false, "print the taxonomy as YAML, suitable as a starting override file")
	return cmd
}

func runTaxonomy(cmd *cobra.Command, _ []string) error {
	tax, err := config.LoadTaxonomy()
	if err != nil {
		return err
	}

	asYAML, err := cmd.Flags().GetBool("yaml")
	if err != nil {
		return err
	}
	if !asYAML {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTaxonomy(tax))
		return nil
	}

	documents := tax.Documents()
	out, err := yaml.Marshal(struct {
		Documents  *taxonomy.DocumentKeywords `yaml:"documents"`
		Categories []taxonomy.Category        `yaml:"categories"`
		Chart      []taxonomy.Account         `yaml:"chart"`
	}{&documents, tax.Categories(), tax.Chart()})
	if err != nil {
		return fmt.Errorf("failed to encode taxonomy: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
