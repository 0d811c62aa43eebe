package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/service"
)

// respondWorkbook streams an .xlsx attachment named <prefix>-<date>.xlsx
func respondWorkbook(w http.ResponseWriter, prefix string, buf *bytes.Buffer) {
	filename := fmt.Sprintf("%s-%s.xlsx", prefix, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", service.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
