package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	"github.com/eduassist/backend/internal/pkg/cache"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// tagNamePattern restricts tag names to letters, digits and hyphens.
var tagNamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// SuggestLimit caps tag autosuggest result size.
const SuggestLimit = 10

// TagService handles tag normalization, resolution and autosuggest
type TagService struct {
	tagRepo *repositories.TagRepository
	cache   *cache.Cache
	logger  zerolog.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo *repositories.TagRepository, cache *cache.Cache, logger zerolog.Logger) *TagService {
	return &TagService{
		tagRepo: tagRepo,
		cache:   cache,
		logger:  logger,
	}
}

// NormalizeTagNames parses a comma-separated tag string into a deduplicated
// list of lowercase names, validating each against the allowed character set.
func NormalizeTagNames(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if !tagNamePattern.MatchString(name) {
			return nil, apperrors.ErrInvalidTagName
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// ResolveTags turns a comma-separated tag string into persisted tags,
// creating any that do not exist yet.
func (s *TagService) ResolveTags(ctx context.Context, raw string) ([]models.Tag, error) {
	names, err := NormalizeTagNames(raw)
	if err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tagRepo.GetOrCreate(ctx, name, helpers.Slugify(name))
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// Search returns up to SuggestLimit tags matching the query, serving
// repeated lookups from cache.
func (s *TagService) Search(ctx context.Context, query string) ([]models.Tag, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	// Single characters match too much to be useful suggestions. An empty
	// query is still served: it lists tags ordered by name.
	if len(query) == 1 {
		return []models.Tag{}, nil
	}

	key := cache.TagSearchKey(query)
	var cached []models.Tag
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Str("query", query).Msg("Tag cache read failed")
	}

	tags, err := s.tagRepo.Search(ctx, query, SuggestLimit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	s.cache.Set(ctx, key, tags)
	return tags, nil
}
