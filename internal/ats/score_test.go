package ats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

func fullResume() *domain.ResumeData {
	return &domain.ResumeData{
		Title:    "Backend Engineer Resume",
		Template: domain.TemplateProfessional,
		PersonalInfo: domain.PersonalInfo{
			FirstName:         "Dana",
			LastName:          "Reyes",
			ProfessionalTitle: "Engineer",
			Email:             "dana.reyes@example.com",
			Phone:             "+1 555 010 2030",
			Location:          "Austin, TX",
			Linkedin:          "https://linkedin.com/in/danareyes",
		},
		Summary: domain.Summary{
			Summary: "Backend engineer with eight years of experience building APIs.",
		},
		Experience: []domain.Experience{
			{
				JobTitle:     "Senior Engineer",
				Company:      "Acme",
				StartDate:    "2019-04-01",
				IsCurrentJob: true,
				Description:  "Owns the billing platform.",
				BulletPoints: []string{"Cut latency 40%", "Led team of four", "Shipped invoicing"},
			},
		},
		Education: []domain.Education{
			{Degree: "BSc Computer Science", Institution: "UT Austin", StartDate: "2011-09-01", EndDate: "2015-05-15"},
		},
		Skills: domain.Skills{
			Skills: []string{"Go", "Postgres", "Redis", "Docker", "Kubernetes"},
		},
	}
}

func TestScoreEmptyResume(t *testing.T) {
	assert.Equal(t, 0, Score(&domain.ResumeData{}))
	assert.Equal(t, 0, Score(nil))
}

func TestScoreFullExample(t *testing.T) {
	r := fullResume()
	require.Greater(t, len(r.Summary.Summary), 50)

	// title 10 + contact 10 + summary 15 + experience (10+5) + education 10
	// + skills (10+5) + linkedin 5. The experience and skills groups are
	// nowhere near their 25/20 caps here, so 80 is the exact sum; do not
	// bump this expectation without changing the point table.
	assert.Equal(t, 80, Score(r))
}

func TestScoreContactRequiresBothEmailAndPhone(t *testing.T) {
	onlyEmail := &domain.ResumeData{
		PersonalInfo: domain.PersonalInfo{Email: "a@b.com"},
	}
	onlyPhone := &domain.ResumeData{
		PersonalInfo: domain.PersonalInfo{Phone: "555"},
	}
	both := &domain.ResumeData{
		PersonalInfo: domain.PersonalInfo{Email: "a@b.com", Phone: "555"},
	}

	assert.Equal(t, 0, Score(onlyEmail))
	assert.Equal(t, 0, Score(onlyPhone))
	assert.Equal(t, 10, Score(both))
}

func TestScoreSummaryLengthBoundary(t *testing.T) {
	exactly50 := &domain.ResumeData{Summary: domain.Summary{Summary: string(make([]byte, 50))}}
	over50 := &domain.ResumeData{Summary: domain.Summary{Summary: string(make([]byte, 51))}}

	assert.Equal(t, 0, Score(exactly50), "summary must be strictly longer than 50 chars")
	assert.Equal(t, 15, Score(over50))
}

func TestScoreExperienceSubtotalCapped(t *testing.T) {
	r := &domain.ResumeData{}
	for i := 0; i < 10; i++ {
		r.Experience = append(r.Experience, domain.Experience{
			JobTitle:     fmt.Sprintf("Role %d", i),
			BulletPoints: []string{"a", "b", "c"},
		})
	}

	// 10 base + 10*5 detail would be 60; the group caps at 25
	assert.Equal(t, 25, Score(r))
}

func TestScoreExperienceCapDoesNotEatOtherFactors(t *testing.T) {
	r := fullResume()
	for i := 0; i < 10; i++ {
		r.Experience = append(r.Experience, domain.Experience{
			JobTitle:     fmt.Sprintf("Role %d", i),
			BulletPoints: []string{"a", "b", "c"},
		})
	}

	// every non-experience factor keeps its points alongside the capped group:
	// 10 + 10 + 15 + 25 + 10 + 15 + 5
	assert.Equal(t, 90, Score(r))
}

func TestScoreSkillsSubtotal(t *testing.T) {
	few := &domain.ResumeData{Skills: domain.Skills{Skills: []string{"Go"}}}
	many := &domain.ResumeData{Skills: domain.Skills{Skills: []string{"a", "b", "c", "d", "e", "f", "g"}}}

	assert.Equal(t, 10, Score(few))
	assert.Equal(t, 15, Score(many), "skills group never exceeds its cap")
}

func TestScoreExperienceWithoutDetailedBullets(t *testing.T) {
	r := &domain.ResumeData{
		Experience: []domain.Experience{{JobTitle: "Dev", BulletPoints: []string{"one", "two"}}},
	}
	assert.Equal(t, 10, Score(r), "fewer than 3 bullets earns no detail bonus")
}

func TestScoreAlwaysInRange(t *testing.T) {
	variants := []*domain.ResumeData{
		nil,
		{},
		fullResume(),
	}
	// pile absurd amounts of everything onto one resume
	overloaded := fullResume()
	for i := 0; i < 50; i++ {
		overloaded.Experience = append(overloaded.Experience, domain.Experience{
			BulletPoints: []string{"a", "b", "c", "d"},
		})
		overloaded.Skills.Skills = append(overloaded.Skills.Skills, fmt.Sprintf("skill-%d", i))
		overloaded.Education = append(overloaded.Education, domain.Education{Degree: "x"})
	}
	overloaded.PersonalInfo.Portfolio = "https://example.com"
	variants = append(variants, overloaded)

	for i, r := range variants {
		s := Score(r)
		assert.GreaterOrEqual(t, s, 0, "variant %d", i)
		assert.LessOrEqual(t, s, 100, "variant %d", i)
	}
}

func TestScoreDeterministic(t *testing.T) {
	r := fullResume()
	first := Score(r)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(r))
	}
}
