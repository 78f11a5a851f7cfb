package fusion

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"datafusion/core/export"
	"datafusion/core/merge"
	"datafusion/core/reader"
	"datafusion/core/schema"
	"datafusion/core/storage"
	"datafusion/core/table"
	"datafusion/core/transform"
	"datafusion/feature/fusion/models"

	"go.uber.org/zap"
)

// Service implements the merge workflow: upload files, reconcile and
// merge them, run the transformation pipeline and export the result.
type Service struct {
	reader   *reader.Reader
	mergeCfg merge.Config
	exporter *export.Exporter
	registry *transform.Registry
	archiver *storage.Archiver
	store    *Store
	logger   *zap.Logger
}

// NewService creates a new fusion service.
func NewService(r *reader.Reader, mergeCfg merge.Config, e *export.Exporter, reg *transform.Registry, archiver *storage.Archiver, logger *zap.Logger) *Service {
	return &Service{
		reader:   r,
		mergeCfg: mergeCfg,
		exporter: e,
		registry: reg,
		archiver: archiver,
		store:    NewStore(),
		logger:   logger,
	}
}

// AddFile parses an uploaded file and adds it to the session. The
// file ID is the filename; uploading the same name twice replaces the
// previous table. Any merge result is discarded because its inputs
// changed.
func (s *Service) AddFile(sessionID, filename string, data []byte, opts reader.Options) (models.FileSummary, error) {
	var summary models.FileSummary
	err := s.store.With(sessionID, func(sess *Session) error {
		t, err := s.reader.Read(filename, data, opts)
		if err != nil {
			return err
		}
		sess.Files.Remove(filename)
		if err := sess.Files.Add(filename, t); err != nil {
			return err
		}
		sess.ClearMerge()
		summary = models.FileSummary{
			ID:      filename,
			Name:    filename,
			Rows:    t.NumRows(),
			Columns: t.Names(),
		}
		return nil
	})
	return summary, err
}

// ListFiles returns summaries for every loaded file.
func (s *Service) ListFiles(sessionID string) ([]models.FileSummary, error) {
	var out []models.FileSummary
	err := s.store.With(sessionID, func(sess *Session) error {
		out = make([]models.FileSummary, 0, sess.Files.Len())
		for _, id := range sess.Files.IDs() {
			t, _ := sess.Files.Table(id)
			out = append(out, models.FileSummary{
				ID:      id,
				Name:    id,
				Rows:    t.NumRows(),
				Columns: t.Names(),
			})
		}
		return nil
	})
	return out, err
}

// RemoveFile drops one file from the session.
func (s *Service) RemoveFile(sessionID, fileID string) error {
	return s.store.With(sessionID, func(sess *Session) error {
		if _, ok := sess.Files.Table(fileID); !ok {
			return fmt.Errorf("%w: no file %q in session", ErrState, fileID)
		}
		sess.Files.Remove(fileID)
		sess.ClearMerge()
		return nil
	})
}

// ResetSession clears everything the session holds. The session ID
// stays valid for further requests.
func (s *Service) ResetSession(sessionID string) {
	_ = s.store.With(sessionID, func(sess *Session) error {
		sess.Reset()
		return nil
	})
}

// Merge runs the configured merge over the loaded files and commits
// the result to the session. A failed merge leaves the previous
// result in place.
func (s *Service) Merge(sessionID string, spec merge.Spec) (models.MergeResponse, error) {
	var resp models.MergeResponse
	err := s.store.With(sessionID, func(sess *Session) error {
		spec = s.mergeCfg.ApplyDefaults(spec)
		result, err := merge.Merge(sess.Files, spec)
		if err != nil {
			return err
		}
		sess.Spec = spec
		sess.Mapping = result.Mapping
		sess.Original = result.Table
		sess.Current = result.Table.Clone()
		sess.Steps = nil

		resp = models.MergeResponse{
			Method:            string(result.Method),
			Key:               result.Key,
			DuplicatesDropped: result.DuplicatesDropped,
			Preview:           models.NewTablePreview(result.Table),
		}
		s.logger.Info("Merge completed",
			zap.String("method", string(result.Method)),
			zap.Int("rows", result.Table.NumRows()),
			zap.Int("cols", result.Table.NumCols()),
		)
		return nil
	})
	return resp, err
}

// Columns reports the reconciled column mapping of the last merge, or
// a fresh reconciliation of the loaded files when nothing was merged
// yet.
func (s *Service) Columns(sessionID string) ([]models.ColumnReport, error) {
	var out []models.ColumnReport
	err := s.store.With(sessionID, func(sess *Session) error {
		mapping := sess.Mapping
		if mapping == nil {
			if sess.Files.Len() == 0 {
				return fmt.Errorf("%w: no files loaded", ErrState)
			}
			spec := s.mergeCfg.ApplyDefaults(merge.Spec{})
			mapping = reconcileFiles(sess.Files, spec)
		}
		for _, name := range mapping.Columns() {
			report := models.ColumnReport{
				Name:  name,
				InAll: mapping.InAll(name),
			}
			for _, src := range mapping.Sources(name) {
				report.Sources = append(report.Sources, models.ColumnSource{
					FileID: src.FileID,
					Column: src.Column,
				})
			}
			out = append(out, report)
		}
		return nil
	})
	return out, err
}

// reconcileFiles maps the loaded files' columns using the spec's
// matching options.
func reconcileFiles(fs *table.FileSet, spec merge.Spec) *schema.Mapping {
	return schema.Reconcile(fs, schema.Options{
		IgnoreCase: spec.CaseInsensitive(),
		Fuzzy:      spec.MatchColumns,
		Threshold:  spec.MatchThreshold,
	})
}

// AddStep validates and appends a transformation step, replaying the
// pipeline. A failing step is not committed.
func (s *Service) AddStep(sessionID string, step transform.Step) (models.StepsResponse, error) {
	var resp models.StepsResponse
	err := s.store.With(sessionID, func(sess *Session) error {
		if sess.Original == nil {
			return fmt.Errorf("%w: no merge result to transform", ErrState)
		}
		if err := step.Validate(s.registry); err != nil {
			return err
		}
		steps := append(append([]transform.Step{}, sess.Steps...), step)
		current, err := transform.Replay(sess.Original, steps, s.registry)
		if err != nil {
			return err
		}
		sess.Steps = steps
		sess.Current = current
		resp = s.stepsResponse(sess)
		return nil
	})
	return resp, err
}

// RemoveStep deletes the step at index (zero-based) and replays the
// remaining pipeline.
func (s *Service) RemoveStep(sessionID string, index int) (models.StepsResponse, error) {
	var resp models.StepsResponse
	err := s.store.With(sessionID, func(sess *Session) error {
		if index < 0 || index >= len(sess.Steps) {
			return fmt.Errorf("%w: no step at index %d", ErrState, index)
		}
		steps := append([]transform.Step{}, sess.Steps[:index]...)
		steps = append(steps, sess.Steps[index+1:]...)
		current, err := transform.Replay(sess.Original, steps, s.registry)
		if err != nil {
			return err
		}
		sess.Steps = steps
		sess.Current = current
		resp = s.stepsResponse(sess)
		return nil
	})
	return resp, err
}

// ResetSteps drops the whole pipeline, restoring the original merge
// result.
func (s *Service) ResetSteps(sessionID string) (models.StepsResponse, error) {
	var resp models.StepsResponse
	err := s.store.With(sessionID, func(sess *Session) error {
		if sess.Original == nil {
			return fmt.Errorf("%w: no merge result to transform", ErrState)
		}
		sess.Steps = nil
		sess.Current = sess.Original.Clone()
		resp = s.stepsResponse(sess)
		return nil
	})
	return resp, err
}

func (s *Service) stepsResponse(sess *Session) models.StepsResponse {
	resp := models.StepsResponse{
		Steps:   make([]models.StepInfo, len(sess.Steps)),
		Preview: models.NewTablePreview(sess.Current),
	}
	for i, step := range sess.Steps {
		resp.Steps[i] = models.StepInfo{
			Index:       i,
			Description: step.Describe(),
			Step:        step,
		}
	}
	return resp
}

// Transformers lists the registered plugin transformers.
func (s *Service) Transformers() []models.TransformerInfo {
	list := s.registry.List()
	out := make([]models.TransformerInfo, len(list))
	for i, tr := range list {
		out[i] = models.TransformerInfo{
			Name:        tr.Name(),
			Description: tr.Description(),
			Params:      tr.Params(),
		}
	}
	return out
}

// Export renders the current table in the requested format. When
// archiving is enabled the file is also written to object storage.
func (s *Service) Export(ctx context.Context, sessionID string, format export.Format, filename string) ([]byte, string, error) {
	var data []byte
	err := s.store.With(sessionID, func(sess *Session) error {
		if sess.Current == nil {
			return fmt.Errorf("%w: no merge result to export", ErrState)
		}
		var buf bytes.Buffer
		if err := s.exporter.Write(&buf, format, sess.Current); err != nil {
			return err
		}
		data = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	name := exportFilename(filename, format)
	if s.archiver.Enabled() {
		if _, err := s.archiver.Archive(ctx, name, format.ContentType(), data); err != nil {
			// Archiving is best effort; the download still succeeds.
			s.logger.Warn("Failed to archive export", zap.Error(err))
		}
	}
	return data, name, nil
}

// exportFilename normalizes the requested filename, enforcing the
// format's extension.
func exportFilename(filename string, format export.Format) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "merged"
	}
	if !strings.HasSuffix(strings.ToLower(name), format.Extension()) {
		name += format.Extension()
	}
	return name
}
