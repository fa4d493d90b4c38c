package export

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/tealeg/xlsx"

	"voicescribe/internal/app/model"
)

// ToExcel writes transcript records to an xlsx file at outputFilePath.
func ToExcel(records []model.TranscriptRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range []string{"ID", "Created At", "Language", "Audio Ref", "Transcript"} {
		headerRow.AddCell().Value = header
	}

	rows := lo.Map(records, func(rec model.TranscriptRecord, _ int) []string {
		return []string{
			rec.ID,
			rec.CreatedAt.Format(time.RFC3339),
			rec.Language,
			rec.AudioRef,
			rec.Transcript,
		}
	})
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, value := range cells {
			row.AddCell().Value = value
		}
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}
