package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
)

// DateRange bounds a metadata export by inclusive calendar dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MetadataExport is the flattened per-video listing produced by a
// weekly fetch, written before any grouping or download happens.
type MetadataExport struct {
	ExportID      string                 `json:"export_id"`
	ExportDate    string                 `json:"export_date"`
	DateRange     DateRange              `json:"date_range"`
	SurgeonFilter []string               `json:"surgeon_filter,omitempty"`
	UseCaseDate   bool                   `json:"use_case_date"`
	VideoCount    int                    `json:"video_count"`
	Videos        []grouping.VideoRecord `json:"videos"`
}

// NewMetadataExport stamps the export with a fresh id and the current
// UTC time.
func NewMetadataExport(records []grouping.VideoRecord, dateRange DateRange, surgeons []string, useCaseDate bool) *MetadataExport {
	if records == nil {
		records = []grouping.VideoRecord{}
	}
	return &MetadataExport{
		ExportID:      uuid.NewString(),
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
		DateRange:     dateRange,
		SurgeonFilter: surgeons,
		UseCaseDate:   useCaseDate,
		VideoCount:    len(records),
		Videos:        records,
	}
}

// WriteMetadata stores the export under dir as
// video_export_YYYYMMDD_HHMMSS.json and returns the path.
func WriteMetadata(metadata *MetadataExport, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("video_export_%s.json", time.Now().Format("20060102_150405")))
	if err := writeJSONFile(path, metadata); err != nil {
		return "", err
	}
	return path, nil
}

// OperationsExport lists consolidated operations alongside the run that
// produced them.
type OperationsExport struct {
	ExportID       string               `json:"export_id"`
	ExportDate     string               `json:"export_date"`
	SourceCount    int                  `json:"source_video_count"`
	OperationCount int                  `json:"operation_count"`
	Operations     []grouping.Operation `json:"operations"`
}

// NewOperationsExport wraps grouped operations for serialization.
func NewOperationsExport(operations []grouping.Operation, sourceCount int) *OperationsExport {
	if operations == nil {
		operations = []grouping.Operation{}
	}
	return &OperationsExport{
		ExportID:       uuid.NewString(),
		ExportDate:     time.Now().UTC().Format(time.RFC3339),
		SourceCount:    sourceCount,
		OperationCount: len(operations),
		Operations:     operations,
	}
}

// WriteOperations stores the export under dir as
// operations_YYYYMMDD_HHMMSS.json and returns the path.
func WriteOperations(operations *OperationsExport, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("operations_%s.json", time.Now().Format("20060102_150405")))
	if err := writeJSONFile(path, operations); err != nil {
		return "", err
	}
	return path, nil
}
