// ABOUTME: Business logic service for the pixiv app-API endpoints
// ABOUTME: Each endpoint method is a thin configuration of the shared record iterator

package service

import (
	"log/slog"
	"strconv"

	"pixiv-app-client/models"
	"pixiv-app-client/utils"
)

// AppAPIService exposes the paginated app-API endpoints. Every method
// configures the shared RecordIterator with one endpoint descriptor and
// that endpoint's initial argument set; the pagination mechanics live
// entirely in the iterator.
type AppAPIService struct {
	client  AppAPIDriver
	tokens  TokenSource
	logger  *slog.Logger
	monitor *utils.Monitor
}

// NewAppAPIService creates a new app-API service
func NewAppAPIService(client AppAPIDriver, tokens TokenSource, logger *slog.Logger) *AppAPIService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AppAPIService{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// SetMonitor attaches a monitor that observes page fetches
func (s *AppAPIService) SetMonitor(monitor *utils.Monitor) {
	s.monitor = monitor
}

// Fetch returns a record iterator over an arbitrary descriptor. The
// initial argument set must name every parameter the endpoint takes;
// parameters populated by continuation start out empty.
func (s *AppAPIService) Fetch(token models.AuthToken, desc models.EndpointDescriptor, initialArgs map[string]string) *RecordIterator {
	return newRecordIterator(s.client, s.tokens, s.logger, s.monitor, desc, token, initialArgs)
}

// UserBookmarkTags iterates the bookmark tags of a user's public or
// private bookmarks.
func (s *AppAPIService) UserBookmarkTags(token models.AuthToken, userID string, restrict models.Restrict) *RecordIterator {
	return s.Fetch(token, models.BookmarkTagsEndpoint, map[string]string{
		"user_id":  userID,
		"restrict": string(restrict),
		"offset":   "",
	})
}

// UserBookmarks iterates the bookmarked illustrations of a user. tag
// optionally narrows the result to one of the user's bookmark tags and
// may be empty.
func (s *AppAPIService) UserBookmarks(token models.AuthToken, userID string, restrict models.Restrict, tag string) *RecordIterator {
	return s.Fetch(token, models.BookmarksEndpoint, map[string]string{
		"user_id":         userID,
		"restrict":        string(restrict),
		"tag":             tag,
		"max_bookmark_id": "",
	})
}

// IllustComments iterates the comments on an illustration.
func (s *AppAPIService) IllustComments(token models.AuthToken, illustID string) *RecordIterator {
	return s.Fetch(token, models.IllustCommentsEndpoint, map[string]string{
		"illust_id": illustID,
		"offset":    "",
	})
}

// RecommendedIllusts iterates the illustrations the backend recommends
// for the authenticated user.
func (s *AppAPIService) RecommendedIllusts(token models.AuthToken, filter models.Filter, includeRankingIllusts, includePrivacyPolicy bool) *RecordIterator {
	return s.Fetch(token, models.RecommendedEndpoint, map[string]string{
		"filter":                            string(filter),
		"include_ranking_illusts":           strconv.FormatBool(includeRankingIllusts),
		"include_privacy_policy":            strconv.FormatBool(includePrivacyPolicy),
		"min_bookmark_id_for_recent_illust": "",
		"max_bookmark_id_for_recommend":     "",
		"offset":                            "",
	})
}

// SpotlightArticles iterates editorial articles of a category.
func (s *AppAPIService) SpotlightArticles(token models.AuthToken, filter models.Filter, category models.ArticleCategory) *RecordIterator {
	return s.Fetch(token, models.SpotlightArticlesEndpoint, map[string]string{
		"filter":   string(filter),
		"category": string(category),
		"offset":   "",
	})
}

// RelatedIllusts iterates illustrations similar to the one given. The
// server threads its seed set through indexed seed_illust_ids parameters
// on the continuation URL.
func (s *AppAPIService) RelatedIllusts(token models.AuthToken, illustID string, filter models.Filter) *RecordIterator {
	initialArgs := map[string]string{
		"filter":    string(filter),
		"illust_id": illustID,
	}
	for _, key := range models.RelatedIllustsEndpoint.ContinuationKeys {
		initialArgs[key] = ""
	}
	return s.Fetch(token, models.RelatedIllustsEndpoint, initialArgs)
}

// IllustRankings iterates the top ranked illustrations for a ranking mode.
func (s *AppAPIService) IllustRankings(token models.AuthToken, filter models.Filter, mode models.RankMode) *RecordIterator {
	return s.Fetch(token, models.RankingsEndpoint, map[string]string{
		"filter": string(filter),
		"mode":   string(mode),
		"offset": "",
	})
}
