package fusion

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"datafusion/core/export"
	"datafusion/core/expr"
	"datafusion/core/logger"
	"datafusion/core/merge"
	"datafusion/core/reader"
	"datafusion/core/transform"
	"datafusion/feature/fusion/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader carries the session ID. A missing header starts a new
// session; the assigned ID is echoed on every response.
const SessionHeader = "X-Session-ID"

// Handler handles HTTP requests for the fusion workflow.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, logger: service.logger}
}

// RegisterRoutes registers the fusion routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/fusion")
	group.Post("/files", h.HandleUpload)
	group.Get("/files", h.HandleListFiles)
	group.Delete("/files/:id", h.HandleRemoveFile)
	group.Delete("/files", h.HandleResetSession)
	group.Post("/merge", h.HandleMerge)
	group.Get("/columns", h.HandleColumns)
	group.Post("/steps", h.HandleAddStep)
	group.Delete("/steps/:index", h.HandleRemoveStep)
	group.Delete("/steps", h.HandleResetSteps)
	group.Get("/transformers", h.HandleTransformers)
	group.Get("/export", h.HandleExport)
}

// sessionID resolves the session from the request header, assigning a
// fresh ID when absent, and echoes it on the response.
func (h *Handler) sessionID(c *fiber.Ctx) string {
	sid := c.Get(SessionHeader)
	if sid == "" {
		sid = uuid.NewString()
	}
	c.Set(SessionHeader, sid)
	return sid
}

// fail maps an error to the JSON error envelope: 400 for validation
// and domain errors, 500 for everything else.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)
	status := fiber.StatusInternalServerError
	if isClientError(err) {
		status = fiber.StatusBadRequest
		l.Warn("Request rejected", zap.Error(err))
	} else {
		l.Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func isClientError(err error) bool {
	for _, sentinel := range []error{
		reader.ErrUnsupportedFormat,
		reader.ErrParse,
		reader.ErrSizeLimit,
		merge.ErrInvalidSpec,
		merge.ErrMissingKeyColumn,
		expr.ErrExpression,
		transform.ErrInvalidStep,
		export.ErrExport,
		ErrState,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// HandleUpload loads one or more files into the session.
// @Summary Upload Files
// @Description Parses uploaded CSV/XLSX/XLS/JSON files and adds them to the session. Re-uploading a filename replaces it.
// @Tags fusion
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to load"
// @Param delimiter formData string false "CSV delimiter override"
// @Param encoding formData string false "CSV text encoding (e.g. latin1)"
// @Success 200 {object} models.FilesResponse "Loaded files"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /fusion/files [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	l := logger.WithRayID(h.logger, c)

	form, err := c.MultipartForm()
	if err != nil {
		return h.fail(c, errors.Join(ErrState, err))
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		return h.fail(c, errors.Join(ErrState, errors.New("no files in request")))
	}

	opts := reader.Options{Encoding: formValue(form.Value, "encoding")}
	if d := formValue(form.Value, "delimiter"); d != "" {
		opts.Delimiter = []rune(d)[0]
	}

	resp := models.FilesResponse{SessionID: sid}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return h.fail(c, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return h.fail(c, err)
		}

		summary, err := h.service.AddFile(sid, fh.Filename, data, opts)
		if err != nil {
			return h.fail(c, err)
		}
		l.Info("File loaded",
			zap.String("file", fh.Filename),
			zap.Int("rows", summary.Rows),
			zap.Int("cols", len(summary.Columns)),
		)
		resp.Files = append(resp.Files, summary)
	}
	return c.JSON(resp)
}

func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// HandleListFiles lists the loaded files.
// @Summary List Files
// @Description Returns a summary of every file loaded in the session.
// @Tags fusion
// @Produce json
// @Success 200 {object} models.FilesResponse "Loaded files"
// @Router /fusion/files [get]
func (h *Handler) HandleListFiles(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	files, err := h.service.ListFiles(sid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(models.FilesResponse{SessionID: sid, Files: files})
}

// HandleRemoveFile drops one file from the session.
// @Summary Remove File
// @Description Removes a single loaded file. Any merge result is discarded because its inputs changed.
// @Tags fusion
// @Produce json
// @Param id path string true "File ID (filename)"
// @Success 200 {object} models.FilesResponse "Remaining files"
// @Failure 400 {object} map[string]string "Unknown file"
// @Router /fusion/files/{id} [delete]
func (h *Handler) HandleRemoveFile(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	if err := h.service.RemoveFile(sid, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	files, err := h.service.ListFiles(sid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(models.FilesResponse{SessionID: sid, Files: files})
}

// HandleResetSession drops the whole session.
// @Summary Reset Session
// @Description Removes all files, the merge result, and the transformation pipeline.
// @Tags fusion
// @Produce json
// @Success 200 {object} map[string]string "Status"
// @Router /fusion/files [delete]
func (h *Handler) HandleResetSession(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	h.service.ResetSession(sid)
	return c.JSON(fiber.Map{"status": "reset"})
}

// HandleMerge merges the loaded files.
// @Summary Merge Files
// @Description Reconciles columns across the loaded files and merges them with the requested strategy (append, join, smart).
// @Tags fusion
// @Accept json
// @Produce json
// @Param spec body merge.Spec true "Merge specification"
// @Success 200 {object} models.MergeResponse "Merge preview"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /fusion/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	sid := h.sessionID(c)

	var spec merge.Spec
	if err := c.BodyParser(&spec); err != nil {
		return h.fail(c, errors.Join(merge.ErrInvalidSpec, err))
	}
	resp, err := h.service.Merge(sid, spec)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// HandleColumns reports the reconciled columns.
// @Summary Column Report
// @Description Lists the reconciled columns across all loaded files, with their per-file sources.
// @Tags fusion
// @Produce json
// @Success 200 {array} models.ColumnReport "Column report"
// @Failure 400 {object} map[string]string "No files loaded"
// @Router /fusion/columns [get]
func (h *Handler) HandleColumns(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	report, err := h.service.Columns(sid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandleAddStep appends a transformation step.
// @Summary Add Transformation Step
// @Description Validates and appends a step (calculated column, type conversion, value replacement, row filter, or plugin) and replays the pipeline.
// @Tags fusion
// @Accept json
// @Produce json
// @Param step body transform.Step true "Transformation step"
// @Success 200 {object} models.StepsResponse "Pipeline state"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /fusion/steps [post]
func (h *Handler) HandleAddStep(c *fiber.Ctx) error {
	sid := h.sessionID(c)

	var step transform.Step
	if err := c.BodyParser(&step); err != nil {
		return h.fail(c, errors.Join(transform.ErrInvalidStep, err))
	}
	resp, err := h.service.AddStep(sid, step)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// HandleRemoveStep removes one step and replays the pipeline.
// @Summary Remove Transformation Step
// @Description Removes the step at the given index and replays the remaining pipeline from the original merge result.
// @Tags fusion
// @Produce json
// @Param index path int true "Step index (zero-based)"
// @Success 200 {object} models.StepsResponse "Pipeline state"
// @Failure 400 {object} map[string]string "Unknown index"
// @Router /fusion/steps/{index} [delete]
func (h *Handler) HandleRemoveStep(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return h.fail(c, fmt.Errorf("%w: step index %q is not a number", ErrState, c.Params("index")))
	}
	resp, err := h.service.RemoveStep(sid, index)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// HandleResetSteps drops the whole pipeline.
// @Summary Reset Transformations
// @Description Removes every transformation step, restoring the original merge result.
// @Tags fusion
// @Produce json
// @Success 200 {object} models.StepsResponse "Pipeline state"
// @Failure 400 {object} map[string]string "No merge result"
// @Router /fusion/steps [delete]
func (h *Handler) HandleResetSteps(c *fiber.Ctx) error {
	sid := h.sessionID(c)
	resp, err := h.service.ResetSteps(sid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// HandleTransformers lists the registered plugin transformers.
// @Summary List Transformers
// @Description Lists every registered plugin transformer with its declared parameters.
// @Tags fusion
// @Produce json
// @Success 200 {array} models.TransformerInfo "Registered transformers"
// @Router /fusion/transformers [get]
func (h *Handler) HandleTransformers(c *fiber.Ctx) error {
	return c.JSON(h.service.Transformers())
}

// HandleExport downloads the current table.
// @Summary Export Result
// @Description Renders the transformed merge result as CSV, XLSX, or JSON and returns it as a file download.
// @Tags fusion
// @Produce octet-stream
// @Param format query string true "Output format (csv, xlsx, json)"
// @Param filename query string false "Download filename"
// @Success 200 {file} file "Exported file"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /fusion/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	sid := h.sessionID(c)

	format := export.Format(strings.ToLower(c.Query("format", "csv")))
	data, name, err := h.service.Export(c.Context(), sid, format, c.Query("filename"))
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
