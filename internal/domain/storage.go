package domain

import "context"

// ResumeStorage is the uniform persistence contract. The in-memory and
// postgres implementations satisfy identical semantics so either can back
// the service layer.
//
// Resume-level reads return ErrResumeNotFound when the id is absent;
// GetCompleteResume additionally returns ErrIncompleteResume when a
// mandatory 1:1 child has never been saved. Child getters scoped by resume
// id return (nil, nil) when the child simply does not exist yet, which is a
// legitimate state during step-by-step assembly.
type ResumeStorage interface {
	CreateResume(ctx context.Context, resume *Resume) (*Resume, error)
	GetResume(ctx context.Context, id int64) (*Resume, error)
	ListResumes(ctx context.Context, userID *int64) ([]*Resume, error)
	UpdateResume(ctx context.Context, id int64, patch ResumePatch) (*Resume, error)
	DeleteResume(ctx context.Context, id int64) (bool, error)

	// GetCompleteResume joins the Resume row with all child records.
	GetCompleteResume(ctx context.Context, id int64) (*ResumeData, error)

	// SaveCompleteResume upserts the scalar row and the 1:1 children, and
	// replaces the experience and education lists wholesale (delete then
	// recreate, preserving incoming order). Child rows have no stable
	// identity across saves.
	SaveCompleteResume(ctx context.Context, data *ResumeData, userID *int64) (*ResumeData, error)

	CreatePersonalInfo(ctx context.Context, resumeID int64, info *PersonalInfo) (*PersonalInfo, error)
	GetPersonalInfo(ctx context.Context, resumeID int64) (*PersonalInfo, error)
	UpdatePersonalInfo(ctx context.Context, id int64, info *PersonalInfo) (*PersonalInfo, error)

	CreateSummary(ctx context.Context, resumeID int64, summary *Summary) (*Summary, error)
	GetSummary(ctx context.Context, resumeID int64) (*Summary, error)
	UpdateSummary(ctx context.Context, id int64, summary *Summary) (*Summary, error)

	CreateExperience(ctx context.Context, resumeID int64, exp *Experience) (*Experience, error)
	GetExperiences(ctx context.Context, resumeID int64) ([]Experience, error)
	UpdateExperience(ctx context.Context, id int64, exp *Experience) (*Experience, error)
	DeleteExperience(ctx context.Context, id int64) (bool, error)

	CreateEducation(ctx context.Context, resumeID int64, edu *Education) (*Education, error)
	GetEducations(ctx context.Context, resumeID int64) ([]Education, error)
	UpdateEducation(ctx context.Context, id int64, edu *Education) (*Education, error)
	DeleteEducation(ctx context.Context, id int64) (bool, error)

	CreateSkills(ctx context.Context, resumeID int64, skills *Skills) (*Skills, error)
	GetSkills(ctx context.Context, resumeID int64) (*Skills, error)
	UpdateSkills(ctx context.Context, id int64, skills *Skills) (*Skills, error)
}
