package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"golang-verdict-keeper/internal/entity"
	"golang-verdict-keeper/internal/keeper/dto"
	"golang-verdict-keeper/internal/keeper/ingestion"
	"golang-verdict-keeper/internal/keeper/repository"
	"golang-verdict-keeper/pkg/logger"
)

// IngestService runs ingest sessions over batches of analysis files.
type IngestService interface {
	ProcessFiles(ctx context.Context, paths []string, onResult func(dto.FileResult)) *dto.BatchReport
}

// NewIngestService creates a new IngestService.
func NewIngestService(fileRepo repository.AnalysisFileRepository, log *logger.Logger) IngestService {
	return &ingestService{
		fileRepo:   fileRepo,
		logger:     log,
		seenHashes: cache.New(cache.NoExpiration, 0),
	}
}

type ingestService struct {
	fileRepo   repository.AnalysisFileRepository
	logger     *logger.Logger
	seenHashes *cache.Cache
}

// ProcessFiles ingests the files strictly in order, one at a time. Every
// failure is contained to its file; the batch always runs to the end.
// onResult, when non-nil, fires after each file so callers can stream
// progress.
func (s *ingestService) ProcessFiles(ctx context.Context, paths []string, onResult func(dto.FileResult)) *dto.BatchReport {
	report := &dto.BatchReport{SessionID: uuid.NewString()}
	s.logger.Info("Starting ingest session",
		logger.StringField("session_id", report.SessionID),
		logger.IntField("files", len(paths)),
	)

	for _, path := range paths {
		res := s.processFile(ctx, path)
		report.Append(res)
		if onResult != nil {
			onResult(res)
		}
	}

	s.logger.Info("Ingest session finished",
		logger.StringField("session_id", report.SessionID),
		logger.IntField("inserted", report.Inserted),
		logger.IntField("updated", report.Updated),
		logger.IntField("duplicates", report.Duplicates),
		logger.IntField("errors", report.Errors),
	)
	return report
}

func (s *ingestService) processFile(ctx context.Context, path string) dto.FileResult {
	file, err := ingestion.IngestFile(path)
	if err != nil {
		s.logger.Warn("Failed to ingest file",
			logger.StringField("path", path),
			logger.ErrorField(err),
		)
		return dto.FileResult{Path: path, Err: err}
	}

	// Content stored earlier in this session; skip the store round-trip.
	if _, seen := s.seenHashes.Get(file.ContentHash); seen {
		return dto.FileResult{Path: path, Outcome: entity.OutcomeDuplicate}
	}

	outcome, err := s.fileRepo.Upsert(ctx, file)
	if err != nil {
		s.logger.Warn("Failed to store file",
			logger.StringField("path", path),
			logger.ErrorField(err),
		)
		return dto.FileResult{Path: path, Err: err}
	}
	s.seenHashes.Set(file.ContentHash, true, cache.DefaultExpiration)

	s.logger.Debug("Stored analysis file",
		logger.StringField("path", file.FilePath),
		logger.StringField("outcome", string(outcome)),
	)
	return dto.FileResult{Path: path, Outcome: outcome}
}
