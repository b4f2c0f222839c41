package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

// PostgresStorage implements domain.ResumeStorage over database/sql.
// Child tables carry a position column so experience and education keep
// their insertion order across the delete-then-recreate replace.
type PostgresStorage struct {
	db *sql.DB
}

var _ domain.ResumeStorage = (*PostgresStorage)(nil)

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx so the child helpers can
// run inside or outside the save transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (p *PostgresStorage) CreateResume(ctx context.Context, resume *domain.Resume) (*domain.Resume, error) {
	query := `
		INSERT INTO resumes (user_id, title, template, ats_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at`

	template := resume.Template
	if template == "" {
		template = domain.TemplateProfessional
	}

	created := *resume
	created.Template = template
	err := p.db.QueryRowContext(ctx, query,
		resume.UserID, resume.Title, template, resume.ATSScore, time.Now(),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	return &created, nil
}

func (p *PostgresStorage) GetResume(ctx context.Context, id int64) (*domain.Resume, error) {
	return getResume(ctx, p.db, id)
}

func getResume(ctx context.Context, q querier, id int64) (*domain.Resume, error) {
	query := `
		SELECT id, user_id, title, template, ats_score, created_at, updated_at
		FROM resumes WHERE id = $1`

	r := &domain.Resume{}
	err := q.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Template, &r.ATSScore, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResumeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return r, nil
}

func (p *PostgresStorage) ListResumes(ctx context.Context, userID *int64) ([]*domain.Resume, error) {
	query := `
		SELECT id, user_id, title, template, ats_score, created_at, updated_at
		FROM resumes`
	args := []any{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	resumes := make([]*domain.Resume, 0)
	for rows.Next() {
		r := &domain.Resume{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Template, &r.ATSScore, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

func (p *PostgresStorage) UpdateResume(ctx context.Context, id int64, patch domain.ResumePatch) (*domain.Resume, error) {
	existing, err := p.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(existing)

	query := `
		UPDATE resumes
		SET title = $2, template = $3, ats_score = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at`

	err = p.db.QueryRowContext(ctx, query,
		id, existing.Title, existing.Template, existing.ATSScore, time.Now(),
	).Scan(&existing.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResumeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update resume: %w", err)
	}
	return existing, nil
}

func (p *PostgresStorage) DeleteResume(ctx context.Context, id int64) (bool, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete resume: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (p *PostgresStorage) GetCompleteResume(ctx context.Context, id int64) (*domain.ResumeData, error) {
	return getCompleteResume(ctx, p.db, id)
}

func getCompleteResume(ctx context.Context, q querier, id int64) (*domain.ResumeData, error) {
	resume, err := getResume(ctx, q, id)
	if err != nil {
		return nil, err
	}

	info, err := getPersonalInfo(ctx, q, id)
	if err != nil {
		return nil, err
	}
	summary, err := getSummary(ctx, q, id)
	if err != nil {
		return nil, err
	}
	skills, err := getSkills(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if info == nil || summary == nil || skills == nil {
		return nil, domain.ErrIncompleteResume
	}

	experience, err := getExperiences(ctx, q, id)
	if err != nil {
		return nil, err
	}
	education, err := getEducations(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return &domain.ResumeData{
		ID:           resume.ID,
		Title:        resume.Title,
		Template:     resume.Template,
		ATSScore:     resume.ATSScore,
		PersonalInfo: *info,
		Summary:      *summary,
		Experience:   experience,
		Education:    education,
		Skills:       *skills,
	}, nil
}

// SaveCompleteResume runs the whole upsert in one transaction so a save is
// never observed half-applied.
func (p *PostgresStorage) SaveCompleteResume(ctx context.Context, data *domain.ResumeData, userID *int64) (*domain.ResumeData, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error().Err(err).Msg("rollback failed")
		}
	}()

	now := time.Now()
	resumeID := data.ID

	if resumeID != 0 {
		result, err := tx.ExecContext(ctx, `
			UPDATE resumes SET title = $2, template = $3, ats_score = $4, updated_at = $5
			WHERE id = $1`,
			resumeID, data.Title, data.Template, data.ATSScore, now)
		if err != nil {
			return nil, fmt.Errorf("update resume row: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, domain.ErrResumeNotFound
		}
	} else {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO resumes (user_id, title, template, ats_score, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING id`,
			userID, data.Title, data.Template, data.ATSScore, now).Scan(&resumeID)
		if err != nil {
			return nil, fmt.Errorf("insert resume row: %w", err)
		}
	}

	if err := upsertPersonalInfo(ctx, tx, resumeID, &data.PersonalInfo); err != nil {
		return nil, err
	}
	if err := upsertSummary(ctx, tx, resumeID, &data.Summary); err != nil {
		return nil, err
	}
	if err := upsertSkills(ctx, tx, resumeID, &data.Skills); err != nil {
		return nil, err
	}
	if err := replaceExperiences(ctx, tx, resumeID, data.Experience); err != nil {
		return nil, err
	}
	if err := replaceEducations(ctx, tx, resumeID, data.Education); err != nil {
		return nil, err
	}

	saved, err := getCompleteResume(ctx, tx, resumeID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return saved, nil
}

func upsertPersonalInfo(ctx context.Context, q querier, resumeID int64, info *domain.PersonalInfo) error {
	existing, err := getPersonalInfo(ctx, q, resumeID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = updatePersonalInfo(ctx, q, existing.ID, info)
		return err
	}
	_, err = createPersonalInfo(ctx, q, resumeID, info)
	return err
}

func upsertSummary(ctx context.Context, q querier, resumeID int64, summary *domain.Summary) error {
	existing, err := getSummary(ctx, q, resumeID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = updateSummary(ctx, q, existing.ID, summary)
		return err
	}
	_, err = createSummary(ctx, q, resumeID, summary)
	return err
}

func upsertSkills(ctx context.Context, q querier, resumeID int64, skills *domain.Skills) error {
	existing, err := getSkills(ctx, q, resumeID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = updateSkills(ctx, q, existing.ID, skills)
		return err
	}
	_, err = createSkills(ctx, q, resumeID, skills)
	return err
}

func replaceExperiences(ctx context.Context, q querier, resumeID int64, exps []domain.Experience) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM resume_experience WHERE resume_id = $1`, resumeID); err != nil {
		return fmt.Errorf("clear experience: %w", err)
	}
	for i := range exps {
		if _, err := createExperienceAt(ctx, q, resumeID, i, &exps[i]); err != nil {
			return err
		}
	}
	return nil
}

func replaceEducations(ctx context.Context, q querier, resumeID int64, edus []domain.Education) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM resume_education WHERE resume_id = $1`, resumeID); err != nil {
		return fmt.Errorf("clear education: %w", err)
	}
	for i := range edus {
		if _, err := createEducationAt(ctx, q, resumeID, i, &edus[i]); err != nil {
			return err
		}
	}
	return nil
}

func marshalStrings(in []string) ([]byte, error) {
	if in == nil {
		in = []string{}
	}
	return json.Marshal(in)
}

func unmarshalStrings(raw []byte) []string {
	var out []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			log.Warn().Err(err).Msg("malformed string list column, treating as empty")
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
