package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-api/internal/domain/store/storefake"
)

func newProfileService() *ProfileService {
	return NewProfileService(storefake.New(), testLogger(), nil, "")
}

func TestSplitSkills(t *testing.T) {
	require.Equal(t, []string{"Go", "PostgreSQL", "Redis"}, SplitSkills("Go, PostgreSQL ,Redis"))
	require.Equal(t, []string{"Machine Learning"}, SplitSkills("Machine Learning"))
	require.Empty(t, SplitSkills(" , ,"))
}

func TestProfileUpsertCreatesThenUpdates(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	p, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Developer", Skills: "Go,SQL", Twitter: "@jane"})
	require.NoError(t, err)
	require.Equal(t, "u1", p.User)
	require.Equal(t, []string{"Go", "SQL"}, p.Skills)
	require.Equal(t, "@jane", p.Social.Twitter)

	updated, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Senior Developer", Skills: "Go"})
	require.NoError(t, err)
	require.Equal(t, p.ID, updated.ID, "upsert keeps the original identity")
	require.Equal(t, "Senior Developer", updated.Status)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestProfileUpsertPreservesSubRecords(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Developer", Skills: "Go"})
	require.NoError(t, err)

	_, err = svc.AddExperience(ctx, "u1", ExperienceInput{Title: "Engineer", Company: "Acme", From: "2020-01-01"})
	require.NoError(t, err)
	_, err = svc.AddEducation(ctx, "u1", EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2016-09-01"})
	require.NoError(t, err)

	p, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Lead", Skills: "Go,SQL"})
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	require.Len(t, p.Education, 1)
	require.Equal(t, "Lead", p.Status)
}

func TestAddExperiencePrepends(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Developer", Skills: "Go"})
	require.NoError(t, err)

	_, err = svc.AddExperience(ctx, "u1", ExperienceInput{Title: "Junior", Company: "Acme", From: "2018-01-01"})
	require.NoError(t, err)
	p, err := svc.AddExperience(ctx, "u1", ExperienceInput{Title: "Senior", Company: "Acme", From: "2021-01-01"})
	require.NoError(t, err)

	require.Len(t, p.Experience, 2)
	require.Equal(t, "Senior", p.Experience[0].Title, "newest entry first")
	require.Equal(t, "Junior", p.Experience[1].Title)
}

func TestAddEducationAppends(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Developer", Skills: "Go"})
	require.NoError(t, err)

	_, err = svc.AddEducation(ctx, "u1", EducationInput{School: "First", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01"})
	require.NoError(t, err)
	p, err := svc.AddEducation(ctx, "u1", EducationInput{School: "Second", Degree: "MSc", FieldOfStudy: "CS", From: "2018-09-01"})
	require.NoError(t, err)

	require.Len(t, p.Education, 2)
	require.Equal(t, "First", p.Education[0].School)
	require.Equal(t, "Second", p.Education[1].School)
}

func TestDeleteSubRecordIsIdempotent(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", ProfileInput{Status: "Developer", Skills: "Go"})
	require.NoError(t, err)
	p, err := svc.AddExperience(ctx, "u1", ExperienceInput{Title: "Engineer", Company: "Acme", From: "2020-01-01"})
	require.NoError(t, err)

	p, err = svc.DeleteExperience(ctx, "u1", p.Experience[0].ID)
	require.NoError(t, err)
	require.Empty(t, p.Experience)

	// removing an absent entry still succeeds and changes nothing
	p, err = svc.DeleteExperience(ctx, "u1", "missing-entry")
	require.NoError(t, err)
	require.Empty(t, p.Experience)
}

func TestSubRecordMutationsRequireProfile(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	_, err := svc.AddExperience(ctx, "ghost", ExperienceInput{Title: "Engineer", Company: "Acme", From: "2020-01-01"})
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.DeleteEducation(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileLookups(t *testing.T) {
	svc := newProfileService()
	ctx := context.Background()

	_, err := svc.Me(ctx, "u1")
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.Upsert(ctx, "u1", ProfileInput{Status: "Developer", Skills: "Go"})
	require.NoError(t, err)

	p, err := svc.ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", p.User)
}

func TestSearchWithoutBackend(t *testing.T) {
	svc := newProfileService()

	hits, err := svc.Search(context.Background(), "go developer", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}
