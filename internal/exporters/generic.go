package exporters

import "github.com/mrlokans/journo/internal/entities"

type ThoughtExporter interface {
	Export(thoughts []entities.Thought) (ExportResult, error)
}

type ExportResult struct {
	ThoughtsProcessed int `json:"thoughts_processed"`
	ThoughtsFailed    int `json:"thoughts_failed"`
}
