package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/circlesim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes the metadata together with the full trajectory.
func ExportJSON(w io.Writer, meta RunMetadata, states [][]float64, times []float64) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       times,
		States:      states,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteStatesCSV writes one row per sample: time, then x,y,vx,vy of every
// body. Values keep full float64 precision.
func WriteStatesCSV(out io.Writer, states []dynamo.State, times []float64) error {
	w := csv.NewWriter(out)

	if len(states) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time"}
	for b := 0; b < len(states[0])/4; b++ {
		header = append(header,
			fmt.Sprintf("x%d", b), fmt.Sprintf("y%d", b),
			fmt.Sprintf("vx%d", b), fmt.Sprintf("vy%d", b))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := make([]string, 0, len(states[i])+1)
		row = append(row, strconv.FormatFloat(times[i], 'g', -1, 64))
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
