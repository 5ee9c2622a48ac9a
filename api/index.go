package handler

import (
	"log"
	"net/http"
	"sync"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/server"

	"github.com/gin-gonic/gin"
)

var (
	app     *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		log.Printf("🟢 [setupApp] Initializing Gin application")

		// 環境変数はプラットフォーム側の設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		gin.SetMode(gin.ReleaseMode)

		app, initErr = server.New(cfg, nil)
		if initErr != nil {
			log.Printf("❌ [setupApp] %v", initErr)
			return
		}
		log.Printf("🟢 [setupApp] Config loaded successfully")
	})
	return app, initErr
}

// Handler はサーバーレス環境からのすべてのリクエストを処理するエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔵 [Handler] Request received: %s %s", r.Method, r.URL.Path)

	// Ginアプリケーションをセットアップ（初回のみ実行される）
	app, err := setupApp()
	if err != nil {
		http.Error(w, `{"detail":"server initialization failed"}`, http.StatusInternalServerError)
		return
	}
	app.ServeHTTP(w, r)
}
