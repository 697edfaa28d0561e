package ingest

import (
	"github.com/rohmanhakim/askpdf/internal/batch"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/rohmanhakim/askpdf/pkg/hashutil"
)

// Report describes one successfully ingested document.
type Report struct {
	Filename string
	Path     string
	Title    string
	Pages    int
	Chunks   int
	Hash     string
}

// Summary renders a batch result as the success payload of an ingest
// request. Failed documents are listed with their error envelopes.
func Summary(result batch.Result[Report]) map[string]any {
	total := 0
	files := make([]map[string]any, 0, len(result.Processed))
	for _, o := range result.Processed {
		if o.Err != nil {
			files = append(files, map[string]any{
				"filename": o.ID,
				"status":   "failed",
				"error":    failure.ToEnvelope(o.Err),
			})
			continue
		}
		total += o.Value.Chunks
		files = append(files, map[string]any{
			"filename": o.ID,
			"status":   "ingested",
			"chunks":   o.Value.Chunks,
			"pages":    o.Value.Pages,
			"hash":     hashutil.Short(o.Value.Hash, 16),
		})
	}

	return map[string]any{
		"message":      "Documents processed and added to DB",
		"batch_id":     result.RunID,
		"total_chunks": total,
		"succeeded":    result.Succeeded,
		"failed":       result.Failed,
		"files":        files,
	}
}
