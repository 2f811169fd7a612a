package reporting

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/codewithboateng/purslint/internal/ir"
)

// WriteJSONTo renders the full run as indented JSON.
func WriteJSONTo(w io.Writer, run *ir.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func WriteJSON(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteJSONTo(f, run); err != nil {
		return "", err
	}
	return path, nil
}
