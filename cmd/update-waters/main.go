package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"ix-simulation/internal/chem"
	"ix-simulation/internal/data"
	"ix-simulation/internal/model"
)

// update-waters rebuilds the sample water catalog served by the API:
// it starts from a seed catalog (or the built-in samples), adds or replaces
// waters from analysis files, and reports each entry's hardness and charge
// balance so bad lab sheets are caught before they are published.
func main() {
	var (
		outputPath = flag.String("output", "examples/waters.json", "Output catalog path")
		seedFile   = flag.String("seed", "", "Existing catalog to start from (default: built-in samples)")
		maxImbal   = flag.Float64("max-imbalance", 0.10, "Reject waters whose charge imbalance exceeds this fraction (0 disables)")
	)
	flag.Parse()

	catalog := data.DefaultCatalog()
	if *seedFile != "" {
		seed, err := data.LoadCatalog(*seedFile)
		if err != nil {
			log.Fatalf("Failed to load seed catalog: %v", err)
		}
		catalog = seed
		fmt.Printf("Loaded %d waters from %s\n", len(catalog.Waters), *seedFile)
	}

	byName := make(map[string]model.WaterAnalysis, len(catalog.Waters))
	for _, w := range catalog.Waters {
		byName[w.Name] = w
	}

	rejected := 0
	for _, path := range flag.Args() {
		w, err := data.LoadWaterAnalysis(path)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		if _, _, imbalance := chem.ChargeBalance(*w); *maxImbal > 0 && imbalance > *maxImbal {
			fmt.Printf("  ✗ Rejected %s: charge imbalance %.1f%%\n", w.Name, imbalance*100)
			rejected++
			continue
		}
		if _, ok := byName[w.Name]; ok {
			fmt.Printf("  ✓ Replaced: %s\n", w.Name)
		} else {
			fmt.Printf("  ✓ Added: %s\n", w.Name)
		}
		byName[w.Name] = *w
	}

	waters := make([]model.WaterAnalysis, 0, len(byName))
	for _, w := range byName {
		waters = append(waters, w)
	}
	sort.Slice(waters, func(i, j int) bool { return waters[i].Name < waters[j].Name })

	for _, w := range waters {
		hardness := chem.HardnessMeqL(w)
		_, _, imbalance := chem.ChargeBalance(w)
		fmt.Printf("  %-24s hardness %7.2f meq/L (%7.1f mg/L CaCO3)  imbalance %5.1f%%\n",
			w.Name, hardness, chem.HardnessAsCaCO3(hardness), imbalance*100)
	}

	out := &data.WaterCatalog{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Waters:    waters,
	}
	if err := data.SaveCatalog(out, *outputPath); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}
	fmt.Printf("Saved %d waters to %s", len(waters), *outputPath)
	if rejected > 0 {
		fmt.Printf(" (%d rejected)", rejected)
		fmt.Println()
		os.Exit(1)
	}
	fmt.Println()
}
