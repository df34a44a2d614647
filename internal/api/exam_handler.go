package api

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/examstats"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// Content types accepted by AnalyzeExam besides JSON.
const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// maxTopN caps the number of important questions returned for uploads.
const maxTopN = 100

// AnalyzeExam handles POST /api/exam-analysis. The body is either JSON rows
// or a raw CSV or XLSX upload. Uploads take top_n from the query string and
// are not validated row by row, since cleaning fills in or drops bad rows.
func (h *StudyHandler) AnalyzeExam(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/json"
	}

	var req ExamAnalysisRequest
	switch mediaType {
	case contentTypeCSV, contentTypeXLSX:
		format := examstats.FormatCSV
		if mediaType == contentTypeXLSX {
			format = examstats.FormatXLSX
		}
		rows, err := examstats.Read(r.Body, format)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to read exam file")
			return
		}
		req.Rows = rows
		if v := r.URL.Query().Get("top_n"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid top_n")
				return
			}
			req.TopN = min(n, maxTopN)
		}

	case "application/json":
		if !decodeAndValidate(w, r, &req) {
			return
		}

	default:
		shared.RespondWithError(w, r, http.StatusUnsupportedMediaType, "Unsupported content type")
		return
	}

	result, err := h.study.AnalyzeExam(r.Context(), sessionID, req.Rows, req.TopN)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to analyze exam")
		return
	}

	log.Debug("exam analyzed",
		slog.String("format", mediaType),
		slog.Int("rows", result.Analysis.Rows))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
