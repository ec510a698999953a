package ats

import (
	"slices"
	"testing"

	"atscore/internal/types"
)

func TestAnalyzeResumeRejectsEmptyInput(t *testing.T) {
	engine := mustEngine(t)

	if _, err := engine.AnalyzeResume("   "); err == nil {
		t.Error("expected error for blank resume")
	}
}

func TestAnalyzeResumeTechnicalSkillPresence(t *testing.T) {
	engine := mustEngine(t)

	profile, err := engine.AnalyzeResume("I ship services in Python with Docker images")
	if err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}

	for _, skill := range []string{"python", "docker"} {
		if !slices.Contains(profile.TechnicalSkills, skill) {
			t.Errorf("expected skill %q in %v", skill, profile.TechnicalSkills)
		}
	}
	if !slices.IsSorted(profile.TechnicalSkills) {
		t.Errorf("technical skills not in deterministic order: %v", profile.TechnicalSkills)
	}
}

func TestAnalyzeResumeYearsExperience(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name          string
		resumeText    string
		expectedYears int
	}{
		{name: "five plus years", resumeText: "engineer with 5+ years of backend work", expectedYears: 5},
		{name: "five years plain", resumeText: "engineer with 5 years of backend work", expectedYears: 5},
		{name: "three plus years", resumeText: "engineer with 3+ years of backend work", expectedYears: 3},
		{name: "four plus years", resumeText: "engineer with 4+ years of backend work", expectedYears: 3},
		{name: "unrecognized phrasing", resumeText: "a decade of backend work", expectedYears: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := engine.AnalyzeResume(tt.resumeText)
			if err != nil {
				t.Fatalf("AnalyzeResume: %v", err)
			}
			if profile.YearsExperience != tt.expectedYears {
				t.Errorf("YearsExperience = %d, want %d", profile.YearsExperience, tt.expectedYears)
			}
		})
	}
}

func TestAnalyzeResumeEducationLevel(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name       string
		resumeText string
		expected   types.EducationLevel
	}{
		{name: "default bachelor", resumeText: "self-taught engineer", expected: types.EducationBachelor},
		{name: "master degree", resumeText: "holds a Master of Science", expected: types.EducationMaster},
		{name: "mba counts as master", resumeText: "completed an MBA program", expected: types.EducationMaster},
		{name: "phd", resumeText: "PhD in distributed systems", expected: types.EducationPhD},
		{name: "phd wins over master", resumeText: "Master of Science, later a PhD", expected: types.EducationPhD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := engine.AnalyzeResume(tt.resumeText)
			if err != nil {
				t.Fatalf("AnalyzeResume: %v", err)
			}
			if profile.EducationLevel != tt.expected {
				t.Errorf("EducationLevel = %s, want %s", profile.EducationLevel, tt.expected)
			}
		})
	}
}

func TestAnalyzeResumeLeadershipAndCompanyTypes(t *testing.T) {
	engine := mustEngine(t)

	profile, err := engine.AnalyzeResume(
		"Led platform work at a startup, then managed teams at a Fortune 500 corporation")
	if err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}

	for _, signal := range []string{"led", "managed"} {
		if !slices.Contains(profile.LeadershipExperience, signal) {
			t.Errorf("expected leadership signal %q in %v", signal, profile.LeadershipExperience)
		}
	}
	for _, companyType := range []string{"startup", "enterprise"} {
		if !slices.Contains(profile.CompanyTypes, companyType) {
			t.Errorf("expected company type %q in %v", companyType, profile.CompanyTypes)
		}
	}
}

func TestAnalyzeJobRequirementsExperienceLevel(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name     string
		jobText  string
		expected types.ExperienceLevel
	}{
		{name: "senior keyword", jobText: "senior python engineer", expected: types.ExperienceSenior},
		{name: "years threshold", jobText: "python engineer, 7+ years", expected: types.ExperienceSenior},
		{name: "junior keyword", jobText: "junior python engineer", expected: types.ExperienceJunior},
		{name: "new grad", jobText: "python engineer, new grad welcome", expected: types.ExperienceJunior},
		{name: "default mid", jobText: "python engineer", expected: types.ExperienceMid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, err := engine.AnalyzeJobRequirements(tt.jobText)
			if err != nil {
				t.Fatalf("AnalyzeJobRequirements: %v", err)
			}
			if reqs.ExperienceLevel != tt.expected {
				t.Errorf("ExperienceLevel = %s, want %s", reqs.ExperienceLevel, tt.expected)
			}
		})
	}
}

func TestAnalyzeJobRequirementsLeadershipAndIndustry(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name               string
		jobText            string
		leadershipRequired bool
		industry           string
	}{
		{
			name:               "fintech with mentoring",
			jobText:            "python engineer for our banking platform, will mentor juniors",
			leadershipRequired: true,
			industry:           "fintech",
		},
		{
			name:               "healthcare individual contributor",
			jobText:            "python engineer building patient tooling",
			leadershipRequired: false,
			industry:           "healthcare",
		},
		{
			name:               "no recognized industry",
			jobText:            "python engineer",
			leadershipRequired: false,
			industry:           "general",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, err := engine.AnalyzeJobRequirements(tt.jobText)
			if err != nil {
				t.Fatalf("AnalyzeJobRequirements: %v", err)
			}
			if reqs.LeadershipRequired != tt.leadershipRequired {
				t.Errorf("LeadershipRequired = %t, want %t", reqs.LeadershipRequired, tt.leadershipRequired)
			}
			if reqs.Industry != tt.industry {
				t.Errorf("Industry = %s, want %s", reqs.Industry, tt.industry)
			}
		})
	}
}
