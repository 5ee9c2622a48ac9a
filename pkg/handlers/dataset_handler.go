package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"csv-chat-api/pkg/models"
	"csv-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// DatasetHandler アップロードとデータセット参照のハンドラー
type DatasetHandler struct {
	loader      *services.TableLoader
	store       *services.SessionStore
	stats       *services.StatisticsService
	sessions    *SessionResolver
	maxBytes    int64
	sampleLimit int
}

// NewDatasetHandler 新しいDatasetHandlerを作成
func NewDatasetHandler(loader *services.TableLoader, store *services.SessionStore, stats *services.StatisticsService, sessions *SessionResolver, maxBytes int64, sampleLimit int) *DatasetHandler {
	return &DatasetHandler{
		loader:      loader,
		store:       store,
		stats:       stats,
		sessions:    sessions,
		maxBytes:    maxBytes,
		sampleLimit: sampleLimit,
	}
}

// UploadCSV handles POST /upload-csv/.
func (h *DatasetHandler) UploadCSV(c *gin.Context) {
	h.upload(c, services.FormatCSV, "Invalid file format. Please upload a CSV file.")
}

// UploadXLSX handles POST /upload-xlsx/.
func (h *DatasetHandler) UploadXLSX(c *gin.Context) {
	h.upload(c, services.FormatXLSX, "Invalid file format. Please upload an XLSX file.")
}

func (h *DatasetHandler) upload(c *gin.Context, format, formatError string) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Detail: "The uploaded file is too large."})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "No file was uploaded."})
		return
	}
	defer file.Close()

	fileName := fileHeader.Filename
	if got, ok := services.FormatOf(fileName); !ok || got != format {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: formatError})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ [upload] failed to read %s: %v", fileName, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Error reading the uploaded file."})
		return
	}

	table, err := h.loader.Load(fileName, data)
	if err != nil {
		var decodeErr *services.DecodeError
		switch {
		case errors.Is(err, services.ErrEmptyTable):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "The uploaded file is empty or has no data rows."})
		case errors.Is(err, services.ErrUnsupportedFormat):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: formatError})
		case errors.As(err, &decodeErr):
			log.Printf("❌ [upload] %s: %v", fileName, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Error processing file: " + decodeErr.Error()})
		default:
			log.Printf("❌ [upload] %s: %v", fileName, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Error processing file."})
		}
		return
	}

	sessionID := h.sessions.Resolve(c, c.PostForm("session_id"))
	if sessionID == "" {
		sessionID = services.NewSessionID()
	}
	h.store.Put(sessionID, table)
	h.sessions.Remember(c, sessionID)

	log.Printf("📂 [upload] session=%s file=%s rows=%d columns=[%s]",
		sessionID, table.FileName, len(table.Rows), strings.Join(table.ColumnNames(), ", "))

	c.JSON(http.StatusOK, models.UploadResponse{
		Message:   "File uploaded successfully.",
		SessionID: sessionID,
		FileName:  table.FileName,
		Rows:      len(table.Rows),
		Columns:   len(table.Columns),
	})
}

// Describe handles GET /dataset/.
func (h *DatasetHandler) Describe(c *gin.Context) {
	sessionID := h.sessions.Resolve(c, c.Query("session_id"))
	table := h.store.Get(sessionID)
	if table == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: services.NoDatasetReply})
		return
	}
	c.JSON(http.StatusOK, h.stats.ProfileTable(sessionID, table, h.sampleLimit))
}

// Clear handles DELETE /dataset/.
func (h *DatasetHandler) Clear(c *gin.Context) {
	sessionID := h.sessions.Resolve(c, c.Query("session_id"))
	if sessionID == "" || !h.store.Delete(sessionID) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: services.NoDatasetReply})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dataset cleared."})
}
