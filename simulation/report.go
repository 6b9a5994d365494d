package simulation

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/katalvlaran/lvising/checkpoint"
)

// Report holds the per-rung ensemble statistics, indexed like Temperatures.
type Report struct {
	Temperatures       []float64
	Magnetizations     []float64 // trimmed mean of ⟨|m|⟩
	Magnetizations2    []float64
	Magnetizations4    []float64
	BinderCumulants    []float64
	CorrelationLengths []float64
	Chi0               []complex128
	Chiq               []complex128
	Samples            []int // trials merged per rung
}

// OutputNames are the subdirectories, next to the input file, that receive
// the three result files.
type OutputNames struct {
	Magnetizations  string `yaml:"magnetizations"`
	BinderCumulants string `yaml:"binder_cumulants"`
	Correlations    string `yaml:"correlations"`
}

// DefaultOutputNames returns the conventional subdirectory names.
func DefaultOutputNames() OutputNames {
	return OutputNames{
		Magnetizations:  "magnetizations",
		BinderCumulants: "binder_cumulants",
		Correlations:    "correlation_functions",
	}
}

// ResultHeader is the header row of every result file.
var ResultHeader = []string{"temperature", "result"}

// OutputPath substitutes sub into inputPath: <dir>/<sub>/<base>.
func OutputPath(inputPath, sub string) string {
	return filepath.Join(filepath.Dir(inputPath), sub, filepath.Base(inputPath))
}

// WriteReport writes magnetizations, Binder cumulants and correlation
// lengths as "temperature,result" CSV files and returns their paths.
// Empty names fall back to DefaultOutputNames.
func WriteReport(inputPath string, rep *Report, names OutputNames) ([]string, error) {
	def := DefaultOutputNames()
	if names.Magnetizations == "" {
		names.Magnetizations = def.Magnetizations
	}
	if names.BinderCumulants == "" {
		names.BinderCumulants = def.BinderCumulants
	}
	if names.Correlations == "" {
		names.Correlations = def.Correlations
	}

	outputs := []struct {
		sub    string
		values []float64
	}{
		{names.Magnetizations, rep.Magnetizations},
		{names.BinderCumulants, rep.BinderCumulants},
		{names.Correlations, rep.CorrelationLengths},
	}
	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := OutputPath(inputPath, out.sub)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("WriteReport: %w", err)
		}
		records := make([][]string, 0, len(rep.Temperatures)+1)
		records = append(records, ResultHeader)
		for i, t := range rep.Temperatures {
			records = append(records, []string{
				strconv.FormatFloat(t, 'g', -1, 64),
				strconv.FormatFloat(out.values[i], 'g', -1, 64),
			})
		}
		if err := checkpoint.WriteCSV(path, records); err != nil {
			return nil, fmt.Errorf("WriteReport: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
