package services

import (
	"strings"

	"csv-chat-api/pkg/models"
)

// StatisticsService 列ごとのサンプル抽出と基本統計
type StatisticsService struct{}

// NewStatisticsService 新しいStatisticsServiceを作成
func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// SampleValues returns up to limit distinct non-empty values in first-occurrence order.
func (s *StatisticsService) SampleValues(values []string, limit int) []string {
	samples := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, v := range values {
		if len(samples) >= limit {
			break
		}
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		samples = append(samples, v)
	}
	return samples
}

// Summarize 数値列の統計量を計算（数値がなければnil）
func (s *StatisticsService) Summarize(values []string) *models.NumericSummary {
	nums := parseNumbers(values)
	if len(nums) == 0 {
		return nil
	}
	lo, hi := minMax(nums)
	return &models.NumericSummary{
		Count:  len(nums),
		Min:    lo,
		Max:    hi,
		Mean:   calculateMean(nums),
		StdDev: calculateStandardDeviation(nums),
	}
}

// ProfileTable builds the dataset overview returned by GET /dataset/.
func (s *StatisticsService) ProfileTable(sessionID string, table *models.Table, sampleLimit int) models.DatasetProfile {
	profile := models.DatasetProfile{
		SessionID:  sessionID,
		FileName:   table.FileName,
		RowCount:   len(table.Rows),
		UploadedAt: table.UploadedAt,
		Columns:    make([]models.ColumnProfile, len(table.Columns)),
	}

	for i, col := range table.Columns {
		values := table.ColumnValues(i)
		empty := 0
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				empty++
			}
		}
		cp := models.ColumnProfile{
			Name:    col.Name,
			Kind:    col.Kind,
			Samples: s.SampleValues(values, sampleLimit),
			Empty:   empty,
		}
		if col.Kind == models.KindNumerical {
			cp.Summary = s.Summarize(values)
		}
		profile.Columns[i] = cp
	}
	return profile
}
