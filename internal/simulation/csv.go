package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"ix-simulation/internal/model"
)

// WriteProfileCSV writes the breakthrough profile to path.
func WriteProfileCSV(path string, profile []model.ProfilePoint) error {
	return writeFile(path, func(w io.Writer) error { return EncodeProfileCSV(w, profile) })
}

func EncodeProfileCSV(out io.Writer, profile []model.ProfilePoint) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"bed_volumes",
		"effluent_hardness_meq_l",
		"c_over_c0",
		"saturated_cells",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range profile {
		row := []string{
			fmtFloat(p.BedVolumes),
			fmtFloat(p.EffluentMeqL),
			fmtFloat(p.FractionOfFeed),
			strconv.Itoa(p.SaturatedCells),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteMetricsCSV writes one row per metric: section, name, value.
// Rows are sorted within each section so reruns diff cleanly.
func WriteMetricsCSV(path string, out *model.SimulationOutput) error {
	return writeFile(path, func(w io.Writer) error { return EncodeMetricsCSV(w, out) })
}

func EncodeMetricsCSV(dst io.Writer, out *model.SimulationOutput) error {
	w := csv.NewWriter(dst)
	defer w.Flush()

	if err := w.Write([]string{"section", "metric", "value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"run", "status", string(out.Status)},
		{"run", "engine", out.Engine},
		{"run", "actual_runtime_seconds", fmtFloat(out.ActualRuntimeSeconds)},
	}
	if out.Message != "" {
		rows = append(rows, []string{"run", "message", out.Message})
	}
	rows = append(rows, metricRows("performance", out.Performance)...)
	rows = append(rows, metricRows("water_quality", out.WaterQuality)...)
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func metricRows(section string, m map[string]float64) [][]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{section, k, fmtFloat(m[k])})
	}
	return rows
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
