package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/store"
)

var ErrProfileNotFound = errors.New("profile not found")

// subRecordFields are owned by the guarded sub-record operations; a profile
// upsert never overwrites them.
var subRecordFields = []string{"experience", "education"}

// ProfileService owns the profile document: upsert-on-write keyed by the
// account, guarded sub-record mutations, and optional search indexing.
type ProfileService struct {
	Store           store.Store
	Logger          *logrus.Logger
	ES              *elasticsearch.Client
	ESProfilesIndex string
}

func NewProfileService(st store.Store, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ProfileService {
	return &ProfileService{Store: st, Logger: logger, ES: es, ESProfilesIndex: esIndex}
}

// ProfileInput is the validated request payload for a profile upsert.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         string
	Bio            string
	GithubUsername string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

// SplitSkills turns the comma-separated skills string into the stored list:
// split on comma, trim each part, drop empties. A string with no commas is a
// single skill, internal whitespace intact.
func SplitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AssembleProfile maps validated input to the stored document shape. Pure:
// recognized social keys are copied, everything else is dropped.
func AssembleProfile(userID string, in ProfileInput) entity.Profile {
	return entity.Profile{
		ID:             uuid.NewString(),
		User:           userID,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Status:         in.Status,
		Skills:         SplitSkills(in.Skills),
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Social: entity.SocialLinks{
			Youtube:   in.Youtube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			Linkedin:  in.Linkedin,
			Instagram: in.Instagram,
		},
		Experience: []entity.Experience{},
		Education:  []entity.Education{},
		Date:       time.Now().UTC(),
	}
}

// Upsert writes the profile keyed by the owning account. An existing
// profile keeps its identity and its experience/education entries; only the
// assembled fields are replaced.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (entity.Profile, error) {
	p := AssembleProfile(userID, in)

	var out entity.Profile
	err := s.Store.Upsert(ctx, store.Profiles, store.Doc{
		ID:        p.ID,
		Key:       userID,
		Body:      p,
		MergeOmit: subRecordFields,
	}, &out)
	if err != nil {
		return entity.Profile{}, err
	}

	s.indexProfile(ctx, &out)
	return out, nil
}

// Me returns the account's own profile.
func (s *ProfileService) Me(ctx context.Context, userID string) (entity.Profile, error) {
	return s.byUser(ctx, userID)
}

// ByUser returns the profile owned by the given account id.
func (s *ProfileService) ByUser(ctx context.Context, userID string) (entity.Profile, error) {
	return s.byUser(ctx, userID)
}

func (s *ProfileService) byUser(ctx context.Context, userID string) (entity.Profile, error) {
	var p entity.Profile
	err := s.Store.FindOne(ctx, store.Profiles, store.Filter{Fields: map[string]string{"user": userID}}, &p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return entity.Profile{}, ErrProfileNotFound
		}
		return entity.Profile{}, err
	}
	return p, nil
}

// All lists every profile, newest first.
func (s *ProfileService) All(ctx context.Context) ([]entity.Profile, error) {
	raws, err := s.Store.FindMany(ctx, store.Profiles, store.Filter{}, store.SortDateDesc)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Profile, 0, len(raws))
	for _, raw := range raws {
		var p entity.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ExperienceInput is the validated payload for a new experience entry.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

// AddExperience prepends an entry with a generated identity, guarded on the
// profile existing. The profile is expected to pre-exist; its absence is a
// fault, not a user error.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (entity.Profile, error) {
	exp := entity.Experience{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.mutateProfile(ctx, userID, store.Mutation{
		Push: []store.ArrayPush{{Field: "experience", Value: exp, Front: true}},
	})
}

// DeleteExperience removes the entry with the given id. Idempotent: a
// missing entry leaves the profile unchanged and still succeeds.
func (s *ProfileService) DeleteExperience(ctx context.Context, userID, expID string) (entity.Profile, error) {
	return s.mutateProfile(ctx, userID, store.Mutation{
		Pull: []store.ElemMatch{{Field: "experience", Match: map[string]any{"id": expID}}},
	})
}

// EducationInput is the validated payload for a new education entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

// AddEducation appends an entry with a generated identity, guarded on the
// profile existing.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (entity.Profile, error) {
	edu := entity.Education{
		ID:           uuid.NewString(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.mutateProfile(ctx, userID, store.Mutation{
		Push: []store.ArrayPush{{Field: "education", Value: edu}},
	})
}

// DeleteEducation removes the entry with the given id; idempotent like
// DeleteExperience.
func (s *ProfileService) DeleteEducation(ctx context.Context, userID, eduID string) (entity.Profile, error) {
	return s.mutateProfile(ctx, userID, store.Mutation{
		Pull: []store.ElemMatch{{Field: "education", Match: map[string]any{"id": eduID}}},
	})
}

func (s *ProfileService) mutateProfile(ctx context.Context, userID string, m store.Mutation) (entity.Profile, error) {
	var p entity.Profile
	err := s.Store.ConditionalUpdate(ctx, store.Profiles,
		store.Filter{Fields: map[string]string{"user": userID}}, m, &p)
	if err != nil {
		if errors.Is(err, store.ErrPreconditionFailed) {
			return entity.Profile{}, ErrProfileNotFound
		}
		return entity.Profile{}, err
	}
	return p, nil
}

func (s *ProfileService) indexProfile(ctx context.Context, p *entity.Profile) {
	if s.ES == nil || s.ESProfilesIndex == "" {
		return
	}
	doc := map[string]any{
		"id":       p.ID,
		"user":     p.User,
		"status":   p.Status,
		"location": p.Location,
		"skills":   p.Skills,
		"bio":      p.Bio,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESProfilesIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("profile_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("profile_id", p.ID).Warn("es index response error")
	}
}

// Search performs a multi_match query over status, location, skills, and
// bio. Returns an empty result when no search backend is configured.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESProfilesIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"skills^2", "status", "location", "bio"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESProfilesIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
