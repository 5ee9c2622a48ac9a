package services

import (
	"fmt"
	"strings"
	"testing"

	config "csv-chat-api/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPromptBuilder() *PromptBuilder {
	return NewPromptBuilder(config.DefaultPromptConfig(), NewStatisticsService())
}

func TestBuildIsDeterministic(t *testing.T) {
	table, err := NewTableLoader().Load("sales.csv", []byte("month,sales\n2024-01,100\n2024-02,120\n"))
	require.NoError(t, err)

	pb := newTestPromptBuilder()
	first := pb.Build("plot sales by month", table)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, pb.Build("plot sales by month", table))
	}
}

func TestBuildDescribesColumnsAndRequest(t *testing.T) {
	table, err := NewTableLoader().Load("sales.csv", []byte("month,sales,region\n2024-01,100,East\n2024-02,120,West\n"))
	require.NoError(t, err)

	prompt := newTestPromptBuilder().Build("Which region sells more?", table)

	assert.Contains(t, prompt, "Which region sells more?")
	assert.Contains(t, prompt, "- File: sales.csv")
	assert.Contains(t, prompt, "- Rows: 2")
	assert.Contains(t, prompt, `- name: "month", kind: temporal, samples: ["2024-01","2024-02"]`)
	assert.Contains(t, prompt, `- name: "sales", kind: numerical`)
	assert.Contains(t, prompt, `- name: "region", kind: categorical, samples: ["East","West"]`)
	assert.Contains(t, prompt, "bot_response")
	assert.Contains(t, strings.ToLower(prompt), "vega-lite")
}

func TestBuildLimitsSampleValues(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id\n")
	for i := 0; i < 50; i++ {
		sb.WriteString(fmt.Sprintf("item-%02d\n", i))
	}
	table, err := NewTableLoader().Load("items.csv", []byte(sb.String()))
	require.NoError(t, err)

	prompt := newTestPromptBuilder().Build("count items", table)

	assert.Contains(t, prompt, `"item-09"`)
	assert.NotContains(t, prompt, `"item-10"`)
}

func TestSystemRole(t *testing.T) {
	pb := newTestPromptBuilder()
	assert.Equal(t, config.DefaultPromptConfig().System.Role, pb.SystemRole())
	assert.NotEmpty(t, pb.SystemRole())
}
