package services

import (
	"encoding/json"
	"fmt"
	"strings"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/models"
)

// PromptBuilder builds the single instruction sent to the model for a chat turn.
type PromptBuilder struct {
	cfg   *config.PromptConfig
	stats *StatisticsService
}

// NewPromptBuilder 新しいPromptBuilderを作成
func NewPromptBuilder(cfg *config.PromptConfig, stats *StatisticsService) *PromptBuilder {
	return &PromptBuilder{cfg: cfg, stats: stats}
}

// SystemRole returns the fixed system message.
func (pb *PromptBuilder) SystemRole() string {
	return pb.cfg.System.Role
}

// Build returns the instruction text. Same input always yields the same text.
func (pb *PromptBuilder) Build(userText string, table *models.Table) string {
	var sb strings.Builder

	sb.WriteString("You are given a dataset and a request from the user about it.\n\n")

	sb.WriteString("## User request\n")
	sb.WriteString(userText)
	sb.WriteString("\n\n")

	sb.WriteString("## Dataset\n")
	sb.WriteString(fmt.Sprintf("- File: %s\n", table.FileName))
	sb.WriteString(fmt.Sprintf("- Rows: %d\n", len(table.Rows)))
	sb.WriteString(fmt.Sprintf("- Columns: %d\n\n", len(table.Columns)))

	sb.WriteString("## Columns\n")
	for i, col := range table.Columns {
		samples := pb.stats.SampleValues(table.ColumnValues(i), pb.cfg.SampleValues)
		encoded, _ := json.Marshal(samples)
		sb.WriteString(fmt.Sprintf("- name: %q, kind: %s, samples: %s\n", col.Name, col.Kind, encoded))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Output format (chart grammar: %s)\n", pb.cfg.ChartGrammar))
	for i, rule := range pb.cfg.OutputContract {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}
	sb.WriteString("\n")

	sb.WriteString("## Example\n")
	sb.WriteString(fmt.Sprintf("Request: %s\n", pb.cfg.Example.Request))
	sb.WriteString("Response:\n")
	sb.WriteString(pb.cfg.Example.Response)
	sb.WriteString("\n\n")

	sb.WriteString("Answer the user request above using only the dataset described, following the output format exactly.")

	return sb.String()
}
