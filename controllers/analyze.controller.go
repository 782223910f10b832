package analyzecontroller

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"Remediation-server/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyzeController serves the workbook analysis endpoint.
type AnalyzeController struct {
	Service   *service.RemediationService
	UploadDir string
	Logger    *zap.Logger
}

// HandleAnalyze handles POST requests carrying a workbook and a sheet name
func (c *AnalyzeController) HandleAnalyze(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	sheetName := ctx.PostForm("sheet_name")
	if err != nil || sheetName == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": service.ErrMissingInput.Error()})
		return
	}

	filePath := filepath.Join(c.UploadDir, uploadName(file.Filename))
	if err := ctx.SaveUploadedFile(file, filePath); err != nil {
		c.logger().Error("Saving upload failed", zap.String("file", file.Filename), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.logger().Info("Analyzing upload",
		zap.String("file", file.Filename),
		zap.String("stored", filePath),
		zap.String("sheet", sheetName))

	records, err := c.Service.AnalyzeWorkbook(ctx.Request.Context(), filePath, sheetName)
	if err != nil {
		c.logger().Error("Analysis failed", zap.String("sheet", sheetName), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleHealth reports that the server is up
func (c *AnalyzeController) HandleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterHandlers registers all routes for the analyze controller
func (c *AnalyzeController) RegisterHandlers(router *gin.Engine) {
	router.POST("/analyze", c.HandleAnalyze)
	router.GET("/healthz", c.HandleHealth)
}

func (c *AnalyzeController) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// uploadName makes a client supplied file name safe to store and unique
// within the upload directory.
func uploadName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "upload.xlsx"
	}
	return uuid.New().String() + "_" + base
}
