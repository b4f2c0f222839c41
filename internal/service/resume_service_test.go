package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilporwal7/ResumeHelper/internal/ats"
	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
	"github.com/nikhilporwal7/ResumeHelper/internal/storage"
)

func testResume() *domain.ResumeData {
	return &domain.ResumeData{
		Title:    "Product Resume",
		Template: domain.TemplateExecutive,
		PersonalInfo: domain.PersonalInfo{
			FirstName:         "Ines",
			LastName:          "Marques",
			ProfessionalTitle: "Product Manager",
			Email:             "ines@example.com",
			Phone:             "555-0199",
			Location:          "Lisbon",
			Linkedin:          "https://linkedin.com/in/inesm",
		},
		Summary: domain.Summary{Summary: "Product manager with a decade of shipping consumer software."},
		Experience: []domain.Experience{
			{
				JobTitle:     "PM",
				Company:      "AppWorks",
				StartDate:    "2019-02-01",
				IsCurrentJob: true,
				Description:  "Owns growth.",
				BulletPoints: []string{"Doubled retention", "Launched referrals", "Ran experiments"},
			},
		},
		Education: []domain.Education{
			{Degree: "BA Economics", Institution: "NOVA", StartDate: "2009-09-01", EndDate: "2013-06-30"},
		},
		Skills: domain.Skills{Skills: []string{"Roadmaps", "SQL", "A/B testing", "Analytics", "Discovery"}},
	}
}

func newTestService() (ResumeService, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage()
	return NewResumeService(store, nil, 0), store
}

func TestSaveValidatesAggregate(t *testing.T) {
	svc, _ := newTestService()

	bad := testResume()
	bad.PersonalInfo.Email = "not-an-email"
	bad.Template = "neon"

	_, err := svc.Save(context.Background(), bad, nil)
	require.Error(t, err)

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make(map[string]bool)
	for _, ve := range verrs {
		fields[ve.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["template"])
}

func TestSaveSanitizesFreeText(t *testing.T) {
	svc, _ := newTestService()

	data := testResume()
	data.Title = "  <script>alert(1)</script>Clean Title "
	data.Skills.Skills = []string{"Go", "  ", "<b>SQL</b>"}

	saved, err := svc.Save(context.Background(), data, nil)
	require.NoError(t, err)
	assert.Equal(t, "Clean Title", saved.Title)
	assert.Equal(t, []string{"Go", "SQL"}, saved.Skills.Skills)
}

func TestLocalAndPersistedScoringAgree(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	data := testResume()
	localScore, _ := svc.Analyze(data)

	saved, err := svc.Save(ctx, data, nil)
	require.NoError(t, err)

	persistedScore, err := svc.RecalculateScore(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, localScore, persistedScore, "client-side and persisted scoring must not drift")
}

func TestRecalculateScorePersistsOntoRow(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, testResume(), nil)
	require.NoError(t, err)
	require.Zero(t, saved.ATSScore, "score starts as the submitted cache value")

	score, err := svc.RecalculateScore(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, ats.Score(saved), score)

	row, err := store.GetResume(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, score, row.ATSScore)
}

func TestRecalculateScoreMissingResume(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RecalculateScore(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrResumeNotFound)
}

func TestDeleteMissingResume(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrResumeNotFound)
}

func TestAnalyzeNeverFails(t *testing.T) {
	svc, _ := newTestService()

	score, tips := svc.Analyze(&domain.ResumeData{})
	assert.Equal(t, 0, score)
	assert.NotEmpty(t, tips)

	score, tips = svc.Analyze(nil)
	assert.Equal(t, 0, score)
	assert.NotEmpty(t, tips)
}
