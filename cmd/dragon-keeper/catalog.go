package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dragon-keeper/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the built-in game catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	printCatalog(cmd, cat)
	return nil
}

func printCatalog(cmd *cobra.Command, cat *catalog.Catalog) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Starting roster:\n")
	for _, d := range cat.StartingRoster() {
		fmt.Fprintf(out, "  %-10s %-12s %-8s lv %d  hp %d  atk %d  def %d\n",
			d.ID, d.Name, d.Species, d.Level, d.MaxHP, d.Attack, d.Defense)
	}

	fmt.Fprintf(out, "\nOpponents:\n")
	for _, d := range cat.Opponents() {
		fmt.Fprintf(out, "  %-10s %-12s %-8s lv %d  hp %d  atk %d  def %d\n",
			d.ID, d.Name, d.Species, d.Level, d.MaxHP, d.Attack, d.Defense)
	}

	fmt.Fprintf(out, "\nGacha pool:\n")
	for _, d := range cat.GachaPool() {
		fmt.Fprintf(out, "  %-14s %-12s %-8s hp %d  atk %d  def %d\n",
			d.ID, d.Name, d.Species, d.MaxHP, d.Attack, d.Defense)
	}

	fmt.Fprintf(out, "\nSkills:\n")
	for _, s := range cat.Skills() {
		fmt.Fprintf(out, "  %-18s %-20s %-7s energy %d  cooldown %ds\n", s.ID, s.Name, s.Kind, s.EnergyCost, s.Cooldown)
	}

	fmt.Fprintf(out, "\nShop:\n")
	for _, item := range cat.ShopItems() {
		fmt.Fprintf(out, "  %-24s %-20s %-12s %d coins\n", item.ID, item.Name, item.Category, item.Price)
	}
}
