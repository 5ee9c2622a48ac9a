package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptConfig はsystem_prompt.yamlの構造を定義
type PromptConfig struct {
	System struct {
		Role    string `yaml:"role"`
		Version string `yaml:"version"`
	} `yaml:"system"`

	ChartGrammar string `yaml:"chart_grammar"`
	SampleValues int    `yaml:"sample_values"`

	// OutputContract はモデルに要求するJSON形式の説明
	OutputContract []string `yaml:"output_contract"`

	Example struct {
		Request  string `yaml:"request"`
		Response string `yaml:"response"`
	} `yaml:"example"`

	SpecialCommands struct {
		Help struct {
			Trigger  []string `yaml:"trigger"`
			Response string   `yaml:"response"`
		} `yaml:"help"`
	} `yaml:"special_commands"`
}

// maxSampleValues 列ごとにプロンプトへ載せるサンプル値の上限
const maxSampleValues = 10

const defaultExampleResponse = `{
  "bot_response": "Here is a bar chart of total sales per region.",
  "chart": {
    "$schema": "https://vega.github.io/schema/vega-lite/v5.json",
    "data": {"values": [{"region": "North", "sales": 120}, {"region": "South", "sales": 80}]},
    "mark": "bar",
    "encoding": {
      "x": {"field": "region", "type": "nominal"},
      "y": {"field": "sales", "type": "quantitative", "aggregate": "sum"}
    }
  }
}`

// DefaultPromptConfig returns the built-in prompt configuration used when no YAML file is present.
func DefaultPromptConfig() *PromptConfig {
	c := &PromptConfig{}
	c.System.Role = "You are a helpful data analyst assistant. You answer questions about the user's dataset and, when a visualization helps, describe it as a Vega-Lite chart specification. You always reply with a single JSON object and nothing else."
	c.System.Version = "1"
	c.ChartGrammar = "Vega-Lite v5"
	c.SampleValues = maxSampleValues
	c.OutputContract = []string{
		`Respond with a single valid JSON object and no surrounding text.`,
		`The object must contain a "bot_response" string with your conversational answer.`,
		`If a chart is relevant to the request, add a "chart" object holding a complete specification in the chart grammar above.`,
		`Put the data the chart needs inline under "chart.data.values", using the column names exactly as listed.`,
		`Map columns to encodings by kind: categorical -> "nominal", numerical -> "quantitative", temporal -> "temporal".`,
		`If no chart is relevant, omit the "chart" field.`,
	}
	c.Example.Request = "Show me total sales per region as a bar chart"
	c.Example.Response = defaultExampleResponse
	c.SpecialCommands.Help.Trigger = []string{"/help"}
	c.SpecialCommands.Help.Response = "Upload a CSV or XLSX file, then ask a question about it, for example \"plot revenue by month\". I will answer and draw a chart when one helps."
	return c
}

// LoadPromptConfig はYAMLファイルからプロンプト設定を読み込む
// ファイルが存在しない場合はデフォルト設定を返す
func LoadPromptConfig(path string) (*PromptConfig, error) {
	defaults := DefaultPromptConfig()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Prompt config %s not found, using built-in defaults", path)
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロンプト設定ファイルの読み込みに失敗: %w", err)
	}

	var cfg PromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}

	cfg.fillDefaults(defaults)
	return &cfg, nil
}

// fillDefaults 未設定の項目をデフォルト値で補完
func (c *PromptConfig) fillDefaults(d *PromptConfig) {
	if c.System.Role == "" {
		c.System.Role = d.System.Role
	}
	if c.ChartGrammar == "" {
		c.ChartGrammar = d.ChartGrammar
	}
	if c.SampleValues <= 0 || c.SampleValues > maxSampleValues {
		c.SampleValues = d.SampleValues
	}
	if len(c.OutputContract) == 0 {
		c.OutputContract = d.OutputContract
	}
	if c.Example.Request == "" || c.Example.Response == "" {
		c.Example = d.Example
	}
	if len(c.SpecialCommands.Help.Trigger) == 0 {
		c.SpecialCommands.Help = d.SpecialCommands.Help
	}
}

// CheckSpecialCommand は特別なコマンドかチェック
func (c *PromptConfig) CheckSpecialCommand(message string) (bool, string) {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, trigger := range c.SpecialCommands.Help.Trigger {
		if msg == strings.ToLower(strings.TrimSpace(trigger)) {
			return true, c.SpecialCommands.Help.Response
		}
	}
	return false, ""
}
