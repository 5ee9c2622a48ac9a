package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/server"
	"csv-chat-api/pkg/services"

	"github.com/joho/godotenv"
)

const sampleCSV = "month,sales,region\n2024-01,120,North\n2024-02,95,South\n2024-03,143,North\n"

func main() {
	csvPath := flag.String("file", "", "CSV or XLSX file to send (default: built-in sample)")
	question := flag.String("q", "Plot sales by month as a line chart", "chat message")
	flag.Parse()

	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: .env file not found or could not be loaded: %v", err)
	}
	cfg := config.LoadConfig()

	prompts, err := config.LoadPromptConfig(cfg.PromptConfigPath)
	if err != nil {
		log.Fatalf("FATAL: プロンプト設定の読み込みに失敗: %v", err)
	}

	// --- データセットの読み込み ---
	fileName, data := "sample.csv", []byte(sampleCSV)
	if *csvPath != "" {
		fileName = *csvPath
		if data, err = os.ReadFile(*csvPath); err != nil {
			log.Fatalf("FATAL: ファイルの読み込みに失敗: %v", err)
		}
	}
	table, err := services.NewTableLoader().Load(fileName, data)
	if err != nil {
		log.Fatalf("FATAL: データセットの読み込みに失敗: %v", err)
	}
	log.Printf("INFO: %s (%d rows, columns=%v)", table.FileName, len(table.Rows), table.ColumnNames())

	// --- モデル呼び出し ---
	client := server.NewModelClient(cfg)
	builder := services.NewPromptBuilder(prompts, services.NewStatisticsService())
	prompt := builder.Build(*question, table)
	log.Println("INFO: モデル:", client.Model())
	log.Println("INFO: プロンプト:\n" + prompt)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OpenAITimeout)
	defer cancel()

	start := time.Now()
	raw, err := services.NewModelGateway(client, cfg.OpenAIMaxTokens).Complete(ctx, builder.SystemRole(), prompt)
	if err != nil {
		log.Fatalf("FATAL: モデル呼び出しに失敗: %v", err)
	}

	log.Println("--- レスポンス ---")
	log.Println("所要時間:", time.Since(start))
	log.Println("レスポンスボディ:", raw)

	if _, err := services.NewResponseValidator().Validate(raw); err != nil {
		log.Printf("\nERROR: 応答がJSON契約を満たしていません: %v", err)
		os.Exit(1)
	}
	log.Println("\nSUCCESS: 正常に応答が返ってきました。")
}
