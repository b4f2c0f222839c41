// Package storage provides the two interchangeable implementations of
// domain.ResumeStorage: an in-memory map-based store used for development
// and tests, and a postgres-backed store.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

// MemoryStorage keeps every record in process-local maps. A single mutex
// guards the whole store, giving each call individual consistency; there is
// no cross-call ordering guarantee, matching the postgres behavior.
type MemoryStorage struct {
	mu sync.RWMutex

	resumes       map[int64]*domain.Resume
	personalInfos map[int64]*domain.PersonalInfo
	summaries     map[int64]*domain.Summary
	experiences   map[int64]*domain.Experience
	educations    map[int64]*domain.Education
	skills        map[int64]*domain.Skills

	// insertion order of experience/education rows, per resume
	expOrder map[int64][]int64
	eduOrder map[int64][]int64

	nextResumeID       int64
	nextPersonalInfoID int64
	nextSummaryID      int64
	nextExperienceID   int64
	nextEducationID    int64
	nextSkillsID       int64
}

var _ domain.ResumeStorage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		resumes:            make(map[int64]*domain.Resume),
		personalInfos:      make(map[int64]*domain.PersonalInfo),
		summaries:          make(map[int64]*domain.Summary),
		experiences:        make(map[int64]*domain.Experience),
		educations:         make(map[int64]*domain.Education),
		skills:             make(map[int64]*domain.Skills),
		expOrder:           make(map[int64][]int64),
		eduOrder:           make(map[int64][]int64),
		nextResumeID:       1,
		nextPersonalInfoID: 1,
		nextSummaryID:      1,
		nextExperienceID:   1,
		nextEducationID:    1,
		nextSkillsID:       1,
	}
}

func (m *MemoryStorage) CreateResume(_ context.Context, resume *domain.Resume) (*domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	created := *resume
	created.ID = m.nextResumeID
	m.nextResumeID++
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Template == "" {
		created.Template = domain.TemplateProfessional
	}

	m.resumes[created.ID] = &created
	out := created
	return &out, nil
}

func (m *MemoryStorage) GetResume(_ context.Context, id int64) (*domain.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resumes[id]
	if !ok {
		return nil, domain.ErrResumeNotFound
	}
	out := *r
	return &out, nil
}

func (m *MemoryStorage) ListResumes(_ context.Context, userID *int64) ([]*domain.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Resume, 0, len(m.resumes))
	// iterate in id order so listings are stable
	for id := int64(1); id < m.nextResumeID; id++ {
		r, ok := m.resumes[id]
		if !ok {
			continue
		}
		if userID != nil && (r.UserID == nil || *r.UserID != *userID) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStorage) UpdateResume(_ context.Context, id int64, patch domain.ResumePatch) (*domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.resumes[id]
	if !ok {
		return nil, domain.ErrResumeNotFound
	}
	patch.Apply(r)
	r.UpdatedAt = time.Now()
	out := *r
	return &out, nil
}

func (m *MemoryStorage) DeleteResume(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[id]; !ok {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

func (m *MemoryStorage) GetCompleteResume(ctx context.Context, id int64) (*domain.ResumeData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCompleteLocked(id)
}

func (m *MemoryStorage) getCompleteLocked(id int64) (*domain.ResumeData, error) {
	resume, ok := m.resumes[id]
	if !ok {
		return nil, domain.ErrResumeNotFound
	}

	info := m.findPersonalInfo(id)
	summary := m.findSummary(id)
	skills := m.findSkills(id)
	if info == nil || summary == nil || skills == nil {
		return nil, domain.ErrIncompleteResume
	}

	data := &domain.ResumeData{
		ID:           resume.ID,
		Title:        resume.Title,
		Template:     resume.Template,
		ATSScore:     resume.ATSScore,
		PersonalInfo: *info,
		Summary:      *summary,
		Experience:   m.listExperiencesLocked(id),
		Education:    m.listEducationsLocked(id),
		Skills:       *skills,
	}
	return data, nil
}

func (m *MemoryStorage) SaveCompleteResume(ctx context.Context, data *domain.ResumeData, userID *int64) (*domain.ResumeData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	resumeID := data.ID

	if resumeID != 0 {
		r, ok := m.resumes[resumeID]
		if !ok {
			return nil, domain.ErrResumeNotFound
		}
		r.Title = data.Title
		r.Template = data.Template
		r.ATSScore = data.ATSScore
		r.UpdatedAt = now
	} else {
		resumeID = m.nextResumeID
		m.nextResumeID++
		m.resumes[resumeID] = &domain.Resume{
			ID:        resumeID,
			UserID:    userID,
			Title:     data.Title,
			Template:  data.Template,
			ATSScore:  data.ATSScore,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	// 1:1 children: update in place if present, otherwise create.
	if existing := m.findPersonalInfo(resumeID); existing != nil {
		info := data.PersonalInfo
		info.ID = existing.ID
		info.ResumeID = resumeID
		m.personalInfos[existing.ID] = &info
	} else {
		info := data.PersonalInfo
		info.ID = m.nextPersonalInfoID
		m.nextPersonalInfoID++
		info.ResumeID = resumeID
		m.personalInfos[info.ID] = &info
	}

	if existing := m.findSummary(resumeID); existing != nil {
		summary := data.Summary
		summary.ID = existing.ID
		summary.ResumeID = resumeID
		m.summaries[existing.ID] = &summary
	} else {
		summary := data.Summary
		summary.ID = m.nextSummaryID
		m.nextSummaryID++
		summary.ResumeID = resumeID
		m.summaries[summary.ID] = &summary
	}

	if existing := m.findSkills(resumeID); existing != nil {
		skills := data.Skills
		skills.ID = existing.ID
		skills.ResumeID = resumeID
		skills.Skills = cloneStrings(data.Skills.Skills)
		m.skills[existing.ID] = &skills
	} else {
		skills := data.Skills
		skills.ID = m.nextSkillsID
		m.nextSkillsID++
		skills.ResumeID = resumeID
		skills.Skills = cloneStrings(data.Skills.Skills)
		m.skills[skills.ID] = &skills
	}

	// Experience/education lists are replaced wholesale.
	for _, expID := range m.expOrder[resumeID] {
		delete(m.experiences, expID)
	}
	m.expOrder[resumeID] = nil
	for _, exp := range data.Experience {
		row := exp
		row.ID = m.nextExperienceID
		m.nextExperienceID++
		row.ResumeID = resumeID
		row.BulletPoints = cloneStrings(exp.BulletPoints)
		m.experiences[row.ID] = &row
		m.expOrder[resumeID] = append(m.expOrder[resumeID], row.ID)
	}

	for _, eduID := range m.eduOrder[resumeID] {
		delete(m.educations, eduID)
	}
	m.eduOrder[resumeID] = nil
	for _, edu := range data.Education {
		row := edu
		row.ID = m.nextEducationID
		m.nextEducationID++
		row.ResumeID = resumeID
		m.educations[row.ID] = &row
		m.eduOrder[resumeID] = append(m.eduOrder[resumeID], row.ID)
	}

	return m.getCompleteLocked(resumeID)
}

func (m *MemoryStorage) CreatePersonalInfo(_ context.Context, resumeID int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *info
	created.ID = m.nextPersonalInfoID
	m.nextPersonalInfoID++
	created.ResumeID = resumeID
	m.personalInfos[created.ID] = &created
	out := created
	return &out, nil
}

func (m *MemoryStorage) GetPersonalInfo(_ context.Context, resumeID int64) (*domain.PersonalInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if info := m.findPersonalInfo(resumeID); info != nil {
		out := *info
		return &out, nil
	}
	return nil, nil
}

func (m *MemoryStorage) UpdatePersonalInfo(_ context.Context, id int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.personalInfos[id]
	if !ok {
		return nil, nil
	}
	updated := *info
	updated.ID = id
	updated.ResumeID = existing.ResumeID
	m.personalInfos[id] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryStorage) CreateSummary(_ context.Context, resumeID int64, summary *domain.Summary) (*domain.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *summary
	created.ID = m.nextSummaryID
	m.nextSummaryID++
	created.ResumeID = resumeID
	m.summaries[created.ID] = &created
	out := created
	return &out, nil
}

func (m *MemoryStorage) GetSummary(_ context.Context, resumeID int64) (*domain.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s := m.findSummary(resumeID); s != nil {
		out := *s
		return &out, nil
	}
	return nil, nil
}

func (m *MemoryStorage) UpdateSummary(_ context.Context, id int64, summary *domain.Summary) (*domain.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.summaries[id]
	if !ok {
		return nil, nil
	}
	updated := *summary
	updated.ID = id
	updated.ResumeID = existing.ResumeID
	m.summaries[id] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryStorage) CreateExperience(_ context.Context, resumeID int64, exp *domain.Experience) (*domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *exp
	created.ID = m.nextExperienceID
	m.nextExperienceID++
	created.ResumeID = resumeID
	created.BulletPoints = cloneStrings(exp.BulletPoints)
	m.experiences[created.ID] = &created
	m.expOrder[resumeID] = append(m.expOrder[resumeID], created.ID)
	out := created
	return &out, nil
}

func (m *MemoryStorage) GetExperiences(_ context.Context, resumeID int64) ([]domain.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listExperiencesLocked(resumeID), nil
}

func (m *MemoryStorage) UpdateExperience(_ context.Context, id int64, exp *domain.Experience) (*domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.experiences[id]
	if !ok {
		return nil, nil
	}
	updated := *exp
	updated.ID = id
	updated.ResumeID = existing.ResumeID
	updated.BulletPoints = cloneStrings(exp.BulletPoints)
	m.experiences[id] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryStorage) DeleteExperience(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.experiences[id]
	if !ok {
		return false, nil
	}
	delete(m.experiences, id)
	m.expOrder[exp.ResumeID] = removeID(m.expOrder[exp.ResumeID], id)
	return true, nil
}

func (m *MemoryStorage) CreateEducation(_ context.Context, resumeID int64, edu *domain.Education) (*domain.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *edu
	created.ID = m.nextEducationID
	m.nextEducationID++
	created.ResumeID = resumeID
	m.educations[created.ID] = &created
	m.eduOrder[resumeID] = append(m.eduOrder[resumeID], created.ID)
	out := created
	return &out, nil
}

func (m *MemoryStorage) GetEducations(_ context.Context, resumeID int64) ([]domain.Education, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listEducationsLocked(resumeID), nil
}

func (m *MemoryStorage) UpdateEducation(_ context.Context, id int64, edu *domain.Education) (*domain.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.educations[id]
	if !ok {
		return nil, nil
	}
	updated := *edu
	updated.ID = id
	updated.ResumeID = existing.ResumeID
	m.educations[id] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryStorage) DeleteEducation(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	edu, ok := m.educations[id]
	if !ok {
		return false, nil
	}
	delete(m.educations, id)
	m.eduOrder[edu.ResumeID] = removeID(m.eduOrder[edu.ResumeID], id)
	return true, nil
}

func (m *MemoryStorage) CreateSkills(_ context.Context, resumeID int64, skills *domain.Skills) (*domain.Skills, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *skills
	created.ID = m.nextSkillsID
	m.nextSkillsID++
	created.ResumeID = resumeID
	created.Skills = cloneStrings(skills.Skills)
	m.skills[created.ID] = &created
	out := created
	return &out, nil
}

func (m *MemoryStorage) GetSkills(_ context.Context, resumeID int64) (*domain.Skills, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s := m.findSkills(resumeID); s != nil {
		out := *s
		out.Skills = cloneStrings(s.Skills)
		return &out, nil
	}
	return nil, nil
}

func (m *MemoryStorage) UpdateSkills(_ context.Context, id int64, skills *domain.Skills) (*domain.Skills, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.skills[id]
	if !ok {
		return nil, nil
	}
	updated := *skills
	updated.ID = id
	updated.ResumeID = existing.ResumeID
	updated.Skills = cloneStrings(skills.Skills)
	m.skills[id] = &updated
	out := updated
	return &out, nil
}

// lookup helpers, caller must hold the lock

func (m *MemoryStorage) findPersonalInfo(resumeID int64) *domain.PersonalInfo {
	for _, info := range m.personalInfos {
		if info.ResumeID == resumeID {
			return info
		}
	}
	return nil
}

func (m *MemoryStorage) findSummary(resumeID int64) *domain.Summary {
	for _, s := range m.summaries {
		if s.ResumeID == resumeID {
			return s
		}
	}
	return nil
}

func (m *MemoryStorage) findSkills(resumeID int64) *domain.Skills {
	for _, s := range m.skills {
		if s.ResumeID == resumeID {
			return s
		}
	}
	return nil
}

func (m *MemoryStorage) listExperiencesLocked(resumeID int64) []domain.Experience {
	out := make([]domain.Experience, 0, len(m.expOrder[resumeID]))
	for _, id := range m.expOrder[resumeID] {
		if exp, ok := m.experiences[id]; ok {
			cp := *exp
			cp.BulletPoints = cloneStrings(exp.BulletPoints)
			out = append(out, cp)
		}
	}
	return out
}

func (m *MemoryStorage) listEducationsLocked(resumeID int64) []domain.Education {
	out := make([]domain.Education, 0, len(m.eduOrder[resumeID]))
	for _, id := range m.eduOrder[resumeID] {
		if edu, ok := m.educations[id]; ok {
			out = append(out, *edu)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
