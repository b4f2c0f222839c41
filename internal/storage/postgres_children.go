package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

// Child-record primitives. The exported methods run against the pool; the
// unexported helpers accept a querier so SaveCompleteResume can reuse them
// inside its transaction.

func (p *PostgresStorage) CreatePersonalInfo(ctx context.Context, resumeID int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	return createPersonalInfo(ctx, p.db, resumeID, info)
}

func (p *PostgresStorage) GetPersonalInfo(ctx context.Context, resumeID int64) (*domain.PersonalInfo, error) {
	return getPersonalInfo(ctx, p.db, resumeID)
}

func (p *PostgresStorage) UpdatePersonalInfo(ctx context.Context, id int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	return updatePersonalInfo(ctx, p.db, id, info)
}

func createPersonalInfo(ctx context.Context, q querier, resumeID int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	query := `
		INSERT INTO resume_personal_info
			(resume_id, first_name, last_name, professional_title, email, phone, location, linkedin, portfolio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	created := *info
	created.ResumeID = resumeID
	err := q.QueryRowContext(ctx, query,
		resumeID, info.FirstName, info.LastName, info.ProfessionalTitle,
		info.Email, info.Phone, info.Location, info.Linkedin, info.Portfolio,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create personal info: %w", err)
	}
	return &created, nil
}

func getPersonalInfo(ctx context.Context, q querier, resumeID int64) (*domain.PersonalInfo, error) {
	query := `
		SELECT id, resume_id, first_name, last_name, professional_title, email, phone, location, linkedin, portfolio
		FROM resume_personal_info WHERE resume_id = $1`

	info := &domain.PersonalInfo{}
	err := q.QueryRowContext(ctx, query, resumeID).Scan(
		&info.ID, &info.ResumeID, &info.FirstName, &info.LastName, &info.ProfessionalTitle,
		&info.Email, &info.Phone, &info.Location, &info.Linkedin, &info.Portfolio,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get personal info: %w", err)
	}
	return info, nil
}

func updatePersonalInfo(ctx context.Context, q querier, id int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	query := `
		UPDATE resume_personal_info
		SET first_name = $2, last_name = $3, professional_title = $4, email = $5,
			phone = $6, location = $7, linkedin = $8, portfolio = $9
		WHERE id = $1
		RETURNING resume_id`

	updated := *info
	updated.ID = id
	err := q.QueryRowContext(ctx, query,
		id, info.FirstName, info.LastName, info.ProfessionalTitle,
		info.Email, info.Phone, info.Location, info.Linkedin, info.Portfolio,
	).Scan(&updated.ResumeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update personal info: %w", err)
	}
	return &updated, nil
}

func (p *PostgresStorage) CreateSummary(ctx context.Context, resumeID int64, summary *domain.Summary) (*domain.Summary, error) {
	return createSummary(ctx, p.db, resumeID, summary)
}

func (p *PostgresStorage) GetSummary(ctx context.Context, resumeID int64) (*domain.Summary, error) {
	return getSummary(ctx, p.db, resumeID)
}

func (p *PostgresStorage) UpdateSummary(ctx context.Context, id int64, summary *domain.Summary) (*domain.Summary, error) {
	return updateSummary(ctx, p.db, id, summary)
}

func createSummary(ctx context.Context, q querier, resumeID int64, summary *domain.Summary) (*domain.Summary, error) {
	created := *summary
	created.ResumeID = resumeID
	err := q.QueryRowContext(ctx,
		`INSERT INTO resume_summary (resume_id, summary) VALUES ($1, $2) RETURNING id`,
		resumeID, summary.Summary,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}
	return &created, nil
}

func getSummary(ctx context.Context, q querier, resumeID int64) (*domain.Summary, error) {
	s := &domain.Summary{}
	err := q.QueryRowContext(ctx,
		`SELECT id, resume_id, summary FROM resume_summary WHERE resume_id = $1`,
		resumeID,
	).Scan(&s.ID, &s.ResumeID, &s.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return s, nil
}

func updateSummary(ctx context.Context, q querier, id int64, summary *domain.Summary) (*domain.Summary, error) {
	updated := *summary
	updated.ID = id
	err := q.QueryRowContext(ctx,
		`UPDATE resume_summary SET summary = $2 WHERE id = $1 RETURNING resume_id`,
		id, summary.Summary,
	).Scan(&updated.ResumeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update summary: %w", err)
	}
	return &updated, nil
}

func (p *PostgresStorage) CreateExperience(ctx context.Context, resumeID int64, exp *domain.Experience) (*domain.Experience, error) {
	next, err := nextPosition(ctx, p.db, "resume_experience", resumeID)
	if err != nil {
		return nil, err
	}
	return createExperienceAt(ctx, p.db, resumeID, next, exp)
}

func (p *PostgresStorage) GetExperiences(ctx context.Context, resumeID int64) ([]domain.Experience, error) {
	return getExperiences(ctx, p.db, resumeID)
}

func (p *PostgresStorage) UpdateExperience(ctx context.Context, id int64, exp *domain.Experience) (*domain.Experience, error) {
	bullets, err := marshalStrings(exp.BulletPoints)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE resume_experience
		SET job_title = $2, company = $3, location = $4, start_date = $5, end_date = $6,
			is_current_job = $7, description = $8, bullet_points = $9
		WHERE id = $1
		RETURNING resume_id`

	updated := *exp
	updated.ID = id
	err = p.db.QueryRowContext(ctx, query,
		id, exp.JobTitle, exp.Company, exp.Location, exp.StartDate, exp.EndDate,
		exp.IsCurrentJob, exp.Description, bullets,
	).Scan(&updated.ResumeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	return &updated, nil
}

func (p *PostgresStorage) DeleteExperience(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, p.db, "resume_experience", id)
}

func createExperienceAt(ctx context.Context, q querier, resumeID int64, position int, exp *domain.Experience) (*domain.Experience, error) {
	bullets, err := marshalStrings(exp.BulletPoints)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO resume_experience
			(resume_id, position, job_title, company, location, start_date, end_date, is_current_job, description, bullet_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	created := *exp
	created.ResumeID = resumeID
	err = q.QueryRowContext(ctx, query,
		resumeID, position, exp.JobTitle, exp.Company, exp.Location,
		exp.StartDate, exp.EndDate, exp.IsCurrentJob, exp.Description, bullets,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return &created, nil
}

func getExperiences(ctx context.Context, q querier, resumeID int64) ([]domain.Experience, error) {
	query := `
		SELECT id, resume_id, job_title, company, location, start_date, end_date, is_current_job, description, bullet_points
		FROM resume_experience
		WHERE resume_id = $1
		ORDER BY position, id`

	rows, err := q.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Experience, 0)
	for rows.Next() {
		var exp domain.Experience
		var bullets []byte
		if err := rows.Scan(&exp.ID, &exp.ResumeID, &exp.JobTitle, &exp.Company, &exp.Location,
			&exp.StartDate, &exp.EndDate, &exp.IsCurrentJob, &exp.Description, &bullets); err != nil {
			return nil, err
		}
		exp.BulletPoints = unmarshalStrings(bullets)
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) CreateEducation(ctx context.Context, resumeID int64, edu *domain.Education) (*domain.Education, error) {
	next, err := nextPosition(ctx, p.db, "resume_education", resumeID)
	if err != nil {
		return nil, err
	}
	return createEducationAt(ctx, p.db, resumeID, next, edu)
}

func (p *PostgresStorage) GetEducations(ctx context.Context, resumeID int64) ([]domain.Education, error) {
	return getEducations(ctx, p.db, resumeID)
}

func (p *PostgresStorage) UpdateEducation(ctx context.Context, id int64, edu *domain.Education) (*domain.Education, error) {
	query := `
		UPDATE resume_education
		SET degree = $2, institution = $3, location = $4, start_date = $5, end_date = $6,
			is_current_education = $7, description = $8, gpa = $9
		WHERE id = $1
		RETURNING resume_id`

	updated := *edu
	updated.ID = id
	err := p.db.QueryRowContext(ctx, query,
		id, edu.Degree, edu.Institution, edu.Location, edu.StartDate, edu.EndDate,
		edu.IsCurrentEducation, edu.Description, edu.GPA,
	).Scan(&updated.ResumeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update education: %w", err)
	}
	return &updated, nil
}

func (p *PostgresStorage) DeleteEducation(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, p.db, "resume_education", id)
}

func createEducationAt(ctx context.Context, q querier, resumeID int64, position int, edu *domain.Education) (*domain.Education, error) {
	query := `
		INSERT INTO resume_education
			(resume_id, position, degree, institution, location, start_date, end_date, is_current_education, description, gpa)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	created := *edu
	created.ResumeID = resumeID
	err := q.QueryRowContext(ctx, query,
		resumeID, position, edu.Degree, edu.Institution, edu.Location,
		edu.StartDate, edu.EndDate, edu.IsCurrentEducation, edu.Description, edu.GPA,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create education: %w", err)
	}
	return &created, nil
}

func getEducations(ctx context.Context, q querier, resumeID int64) ([]domain.Education, error) {
	query := `
		SELECT id, resume_id, degree, institution, location, start_date, end_date, is_current_education, description, gpa
		FROM resume_education
		WHERE resume_id = $1
		ORDER BY position, id`

	rows, err := q.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Education, 0)
	for rows.Next() {
		var edu domain.Education
		if err := rows.Scan(&edu.ID, &edu.ResumeID, &edu.Degree, &edu.Institution, &edu.Location,
			&edu.StartDate, &edu.EndDate, &edu.IsCurrentEducation, &edu.Description, &edu.GPA); err != nil {
			return nil, err
		}
		out = append(out, edu)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) CreateSkills(ctx context.Context, resumeID int64, skills *domain.Skills) (*domain.Skills, error) {
	return createSkills(ctx, p.db, resumeID, skills)
}

func (p *PostgresStorage) GetSkills(ctx context.Context, resumeID int64) (*domain.Skills, error) {
	return getSkills(ctx, p.db, resumeID)
}

func (p *PostgresStorage) UpdateSkills(ctx context.Context, id int64, skills *domain.Skills) (*domain.Skills, error) {
	return updateSkills(ctx, p.db, id, skills)
}

func createSkills(ctx context.Context, q querier, resumeID int64, skills *domain.Skills) (*domain.Skills, error) {
	list, err := marshalStrings(skills.Skills)
	if err != nil {
		return nil, err
	}

	created := *skills
	created.ResumeID = resumeID
	err = q.QueryRowContext(ctx,
		`INSERT INTO resume_skills (resume_id, skills) VALUES ($1, $2) RETURNING id`,
		resumeID, list,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create skills: %w", err)
	}
	return &created, nil
}

func getSkills(ctx context.Context, q querier, resumeID int64) (*domain.Skills, error) {
	s := &domain.Skills{}
	var raw []byte
	err := q.QueryRowContext(ctx,
		`SELECT id, resume_id, skills FROM resume_skills WHERE resume_id = $1`,
		resumeID,
	).Scan(&s.ID, &s.ResumeID, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get skills: %w", err)
	}
	s.Skills = unmarshalStrings(raw)
	return s, nil
}

func updateSkills(ctx context.Context, q querier, id int64, skills *domain.Skills) (*domain.Skills, error) {
	list, err := marshalStrings(skills.Skills)
	if err != nil {
		return nil, err
	}

	updated := *skills
	updated.ID = id
	err = q.QueryRowContext(ctx,
		`UPDATE resume_skills SET skills = $2 WHERE id = $1 RETURNING resume_id`,
		id, list,
	).Scan(&updated.ResumeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update skills: %w", err)
	}
	return &updated, nil
}

func nextPosition(ctx context.Context, q querier, table string, resumeID int64) (int, error) {
	var next int
	query := fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) + 1 FROM %s WHERE resume_id = $1`, table)
	if err := q.QueryRowContext(ctx, query, resumeID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	return next, nil
}

func deleteByID(ctx context.Context, q querier, table string, id int64) (bool, error) {
	result, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
