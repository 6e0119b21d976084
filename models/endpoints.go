// ABOUTME: This file enumerates the static endpoint descriptors and option constants
// ABOUTME: Descriptors fix path, list key, and continuation parameters per endpoint

package models

import "fmt"

// EndpointDescriptor is the static configuration for one paginated
// endpoint: where to call, which JSON key holds the record list, and which
// query parameters of the server's next_url must be copied forward into
// the next request.
type EndpointDescriptor struct {
	Name             string
	Method           string
	Path             string
	ListKey          string
	ContinuationKeys []string
}

// ContinuationField is the response key holding the next-page URL on every
// app-API endpoint.
const ContinuationField = "next_url"

// relatedSeedCount is the number of indexed seed_illust_ids parameters the
// server embeds in the related-illusts next_url.
const relatedSeedCount = 20

func seedIllustIDKeys() []string {
	keys := make([]string, 0, relatedSeedCount)
	for i := 0; i < relatedSeedCount; i++ {
		keys = append(keys, fmt.Sprintf("seed_illust_ids[%d]", i))
	}
	return keys
}

// Endpoint descriptor table. These mirror the server's fixed paths and are
// never re-derived at runtime.
var (
	BookmarkTagsEndpoint = EndpointDescriptor{
		Name:             "user_bookmark_tags",
		Method:           "GET",
		Path:             "/v1/user/bookmark-tags/illust",
		ListKey:          "bookmark_tags",
		ContinuationKeys: []string{"offset"},
	}

	BookmarksEndpoint = EndpointDescriptor{
		Name:             "user_bookmarks",
		Method:           "GET",
		Path:             "/v1/user/bookmarks/illust",
		ListKey:          "illusts",
		ContinuationKeys: []string{"max_bookmark_id"},
	}

	IllustCommentsEndpoint = EndpointDescriptor{
		Name:             "illust_comments",
		Method:           "GET",
		Path:             "/v2/illust/comments",
		ListKey:          "comments",
		ContinuationKeys: []string{"offset"},
	}

	RecommendedEndpoint = EndpointDescriptor{
		Name:             "recommended_illusts",
		Method:           "GET",
		Path:             "/v1/illust/recommended",
		ListKey:          "illusts",
		ContinuationKeys: []string{"min_bookmark_id_for_recent_illust", "max_bookmark_id_for_recommend", "offset"},
	}

	SpotlightArticlesEndpoint = EndpointDescriptor{
		Name:             "spotlight_articles",
		Method:           "GET",
		Path:             "/v1/spotlight/articles",
		ListKey:          "spotlight_articles",
		ContinuationKeys: []string{"offset"},
	}

	RelatedIllustsEndpoint = EndpointDescriptor{
		Name:             "related_illusts",
		Method:           "GET",
		Path:             "/v2/illust/related",
		ListKey:          "illusts",
		ContinuationKeys: seedIllustIDKeys(),
	}

	RankingsEndpoint = EndpointDescriptor{
		Name:             "illust_rankings",
		Method:           "GET",
		Path:             "/v1/illust/ranking",
		ListKey:          "illusts",
		ContinuationKeys: []string{"mode", "offset", "filter"},
	}
)

// Restrict selects between a user's public and private works.
type Restrict string

const (
	RestrictPublic  Restrict = "public"
	RestrictPrivate Restrict = "private"
)

// Filter is the platform filter the backend applies to results.
type Filter string

const (
	FilterForAndroid Filter = "for_android"
	FilterForIOS     Filter = "for_ios"
)

// ArticleCategory selects which category spotlight articles come from.
type ArticleCategory string

const (
	ArticleCategoryAll       ArticleCategory = "all"
	ArticleCategorySpotlight ArticleCategory = "spotlight"
)

// RankMode selects the ranking period, optionally gender-qualified.
type RankMode string

const (
	RankModeDay       RankMode = "day"
	RankModeWeek      RankMode = "week"
	RankModeMonth     RankMode = "month"
	RankModeDayMale   RankMode = "day_male"
	RankModeDayFemale RankMode = "day_female"
)
