package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
	"go.uber.org/zap"
)

const aliasCacheTTL = 10 * time.Minute

// UserProfileService is the DynamoDB-backed ProfileStore. Alias lookups go
// through a memory-only TTL cache so the per-candidate identity resolution
// in a scoring pass does not hammer the aliases table.
type UserProfileService struct {
	Dynamo *DynamoService
	Logger *zap.Logger

	aliasCache *sfcache.TieredCache[string, string]
}

// NewUserProfileService builds the profile store with its alias cache.
func NewUserProfileService(dynamo *DynamoService, logger *zap.Logger) (*UserProfileService, error) {
	cache, err := sfcache.NewTiered[string, string](null.New[string, string](), sfcache.TTL(aliasCacheTTL))
	if err != nil {
		return nil, fmt.Errorf("create alias cache: %w", err)
	}
	return &UserProfileService{
		Dynamo:     dynamo,
		Logger:     logger,
		aliasCache: cache,
	}, nil
}

// ListEligibleProfiles scans the profiles table, keeping only complete
// profiles that have not opted out. One malformed row never aborts the scan.
func (s *UserProfileService) ListEligibleProfiles(ctx context.Context, excluding string) ([]models.UserProfile, error) {
	items, err := s.Dynamo.ScanItems(ctx, models.UserProfilesTable)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	profiles := make([]models.UserProfile, 0, len(items))
	for _, item := range items {
		var profile models.UserProfile
		if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
			s.Logger.Warn("skipping malformed profile row", zap.Error(err))
			continue
		}
		if !profile.Eligible() || profile.UserID == excluding {
			continue
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// ResolvePrimaryIdentity collapses a raw platform identity into the primary
// user identity via the aliases table. Unknown identities resolve to
// themselves. Results are cached with a short TTL.
func (s *UserProfileService) ResolvePrimaryIdentity(ctx context.Context, rawID string) (string, error) {
	if rawID == "" {
		return "", errors.New("raw identity is required")
	}

	return s.aliasCache.GetSet(ctx, rawID, func(ctx context.Context) (string, error) {
		item, err := s.Dynamo.GetItem(ctx, models.UserAliasesTable, StringKey("rawId", rawID))
		if errors.Is(err, ErrItemNotFound) {
			return rawID, nil
		}
		if err != nil {
			if IsTableNotFound(err) {
				return rawID, nil
			}
			return "", err
		}

		var alias models.UserAlias
		if err := attributevalue.UnmarshalMap(item, &alias); err != nil {
			return "", fmt.Errorf("failed to unmarshal alias for '%s': %w", rawID, err)
		}
		if alias.UserID == "" {
			return rawID, nil
		}
		return alias.UserID, nil
	}, aliasCacheTTL)
}
