package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nikhilporwal7/ResumeHelper/internal/ats"
	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

// ResumeService fronts the storage layer with validation, the aggregate
// read cache and score recomputation.
type ResumeService interface {
	List(ctx context.Context, userID *int64) ([]*domain.Resume, error)
	Get(ctx context.Context, id int64) (*domain.ResumeData, error)
	Save(ctx context.Context, data *domain.ResumeData, userID *int64) (*domain.ResumeData, error)
	Delete(ctx context.Context, id int64) error

	// RecalculateScore rereads the aggregate, scores it and writes the
	// score back onto the resume row. It shares its arithmetic with
	// Analyze; both call ats.Score.
	RecalculateScore(ctx context.Context, id int64) (int, error)

	// Analyze scores an unsaved aggregate and produces tips. Never fails.
	Analyze(data *domain.ResumeData) (int, []ats.Tip)
}

type resumeService struct {
	store    domain.ResumeStorage
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
}

func NewResumeService(store domain.ResumeStorage, cache *redis.Client, cacheTTL time.Duration) ResumeService {
	return &resumeService{store: store, cache: cache, cacheTTL: cacheTTL}
}

func (s *resumeService) List(ctx context.Context, userID *int64) ([]*domain.Resume, error) {
	resumes, err := s.store.ListResumes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

func (s *resumeService) Get(ctx context.Context, id int64) (*domain.ResumeData, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	data, err := s.store.GetCompleteResume(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, data)
	return data, nil
}

func (s *resumeService) Save(ctx context.Context, data *domain.ResumeData, userID *int64) (*domain.ResumeData, error) {
	data.BeforeSave()
	if err := data.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.store.SaveCompleteResume(ctx, data, userID)
	if err != nil {
		return nil, err
	}
	s.cacheInvalidate(ctx, saved.ID)
	return saved, nil
}

func (s *resumeService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteResume(ctx, id)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if !deleted {
		return domain.ErrResumeNotFound
	}
	s.cacheInvalidate(ctx, id)
	return nil
}

func (s *resumeService) RecalculateScore(ctx context.Context, id int64) (int, error) {
	// read through to storage so a stale cache can never feed the score
	data, err := s.store.GetCompleteResume(ctx, id)
	if err != nil {
		return 0, err
	}

	score := ats.Score(data)
	if _, err := s.store.UpdateResume(ctx, id, domain.ResumePatch{ATSScore: &score}); err != nil {
		return 0, fmt.Errorf("persist score: %w", err)
	}
	s.cacheInvalidate(ctx, id)
	return score, nil
}

func (s *resumeService) Analyze(data *domain.ResumeData) (int, []ats.Tip) {
	return ats.Score(data), ats.Tips(data)
}

func cacheKey(id int64) string {
	return fmt.Sprintf("resume:complete:%d", id)
}

func (s *resumeService) cacheGet(ctx context.Context, id int64) *domain.ResumeData {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Int64("resume_id", id).Msg("cache read failed")
		}
		return nil
	}
	var data domain.ResumeData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn().Err(err).Int64("resume_id", id).Msg("dropping malformed cache entry")
		s.cacheInvalidate(ctx, id)
		return nil
	}
	return &data
}

func (s *resumeService) cacheSet(ctx context.Context, data *domain.ResumeData) {
	if s.cache == nil || data == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(data.ID), raw, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Int64("resume_id", data.ID).Msg("cache write failed")
	}
}

func (s *resumeService) cacheInvalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Int64("resume_id", id).Msg("cache invalidation failed")
	}
}
