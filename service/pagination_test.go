package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"pixiv-app-client/driver"
	"pixiv-app-client/mocks"
	"pixiv-app-client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func freshToken() models.AuthToken {
	return models.AuthToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// passthroughTokens wires MockTokenSource to hand every token back
// unchanged, which is the common case for these tests.
func passthroughTokens(ctrl *gomock.Controller) *mocks.MockTokenSource {
	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().
		EnsureFresh(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, token models.AuthToken) (models.AuthToken, error) {
			return token, nil
		}).
		AnyTimes()
	return tokens
}

func collectAll(t *testing.T, it *RecordIterator) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	for it.Next(context.Background()) {
		records = append(records, it.Record())
	}
	return records
}

func illustPage(nextURL interface{}, ids ...float64) map[string]interface{} {
	illusts := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		illusts = append(illusts, map[string]interface{}{"id": id})
	}
	page := map[string]interface{}{"illusts": illusts}
	if nextURL != noNextURL {
		page["next_url"] = nextURL
	}
	return page
}

// noNextURL marks pages whose continuation field is absent entirely,
// as opposed to present but null.
var noNextURL = struct{ absent bool }{true}

func TestRecordIterator_Termination(t *testing.T) {
	tests := map[string]struct {
		nextURL interface{}
	}{
		"absent_next_url": {nextURL: noNextURL},
		"null_next_url":   {nextURL: nil},
		"empty_next_url":  {nextURL: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockAppAPIDriver(ctrl)
			client.EXPECT().
				Get(gomock.Any(), "access", models.RankingsEndpoint.Path, gomock.Any()).
				Return(illustPage(tc.nextURL, 1, 2), nil).
				Times(1)

			svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
			it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

			records := collectAll(t, it)

			require.NoError(t, it.Err())
			assert.Len(t, records, 2, "terminal page still yields its records")
		})
	}
}

func TestRecordIterator_ContinuationPropagation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)

	var secondCallParams map[string]string
	first := client.EXPECT().
		Get(gomock.Any(), "access", models.RankingsEndpoint.Path, gomock.Any()).
		DoAndReturn(func(ctx context.Context, accessToken, path string, params map[string]string) (map[string]interface{}, error) {
			assert.Equal(t, "", params["offset"], "first request carries the unset continuation parameter")
			return illustPage("https://app-api.pixiv.net/v1/illust/ranking?mode=day&offset=42&filter=for_android", 1), nil
		})
	client.EXPECT().
		Get(gomock.Any(), "access", models.RankingsEndpoint.Path, gomock.Any()).
		After(first).
		DoAndReturn(func(ctx context.Context, accessToken, path string, params map[string]string) (map[string]interface{}, error) {
			secondCallParams = make(map[string]string, len(params))
			for k, v := range params {
				secondCallParams[k] = v
			}
			return illustPage(nil, 2), nil
		})

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	records := collectAll(t, it)

	require.NoError(t, it.Err())
	assert.Len(t, records, 2)
	assert.Equal(t, "42", secondCallParams["offset"],
		"the offset extracted from next_url drives the follow-up request")
	assert.Equal(t, string(models.RankModeDay), secondCallParams["mode"],
		"non-continuation arguments persist across pages")
}

func TestRecordIterator_FlatteningOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)

	gomock.InOrder(
		client.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(map[string]interface{}{
				"illusts": []interface{}{
					map[string]interface{}{"id": "A"},
					map[string]interface{}{"id": "B"},
				},
				"next_url": "https://app-api.pixiv.net/v1/illust/ranking?mode=day&offset=2&filter=for_android",
			}, nil),
		client.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(map[string]interface{}{
				"illusts":  []interface{}{map[string]interface{}{"id": "C"}},
				"next_url": nil,
			}, nil),
	)

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	var ids []string
	for it.Next(context.Background()) {
		ids = append(ids, it.Record()["id"].(string))
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []string{"A", "B", "C"}, ids,
		"records preserve page order and intra-page order")
}

func TestRecordIterator_EmptyPageWithContinuation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)

	gomock.InOrder(
		client.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(map[string]interface{}{
				"illusts":  []interface{}{},
				"next_url": "https://app-api.pixiv.net/v1/illust/ranking?mode=day&offset=30&filter=for_android",
			}, nil),
		client.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(illustPage(nil, 99), nil),
	)

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	// A single Next call must reach through the empty page to the record
	// behind it.
	require.True(t, it.Next(context.Background()))
	assert.Equal(t, float64(99), it.Record()["id"])

	assert.False(t, it.Next(context.Background()))
	assert.NoError(t, it.Err())
}

func TestRecordIterator_MissingListKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)
	client.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[string]interface{}{
			"error":    map[string]interface{}{"message": "Rate Limit"},
			"next_url": "https://app-api.pixiv.net/v1/illust/ranking?offset=30",
		}, nil).
		Times(1)

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	// Validation is eager: no record is yielded from a malformed page even
	// though it names a continuation.
	assert.False(t, it.Next(context.Background()))

	err := it.Err()
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindInvalidResponseShape))
	assert.Contains(t, err.Error(), "illusts")

	// The iterator stays failed and issues no further requests
	assert.False(t, it.Next(context.Background()))
}

func TestRecordIterator_ListItemNotObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)
	client.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[string]interface{}{
			"illusts": []interface{}{map[string]interface{}{"id": float64(1)}, "not an object"},
		}, nil)

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	assert.False(t, it.Next(context.Background()))
	assert.True(t, models.IsKind(it.Err(), models.KindInvalidResponseShape))
}

func TestRecordIterator_MalformedContinuation(t *testing.T) {
	tests := map[string]struct {
		nextURL interface{}
	}{
		"missing_continuation_key": {
			nextURL: "https://app-api.pixiv.net/v1/illust/ranking?mode=day",
		},
		"non_string_continuation": {
			nextURL: float64(12345),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockAppAPIDriver(ctrl)
			client.EXPECT().
				Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(illustPage(tc.nextURL, 1), nil).
				Times(1)

			svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
			it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

			assert.False(t, it.Next(context.Background()))
			assert.True(t, models.IsKind(it.Err(), models.KindMalformedContinuation))
		})
	}
}

func TestRecordIterator_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)
	client.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &driver.StatusError{Endpoint: models.RankingsEndpoint.Path, StatusCode: http.StatusNotFound})

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	assert.False(t, it.Next(context.Background()))

	var apiErr *models.APIError
	require.ErrorAs(t, it.Err(), &apiErr)
	assert.Equal(t, models.KindTransportFailed, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, models.RankingsEndpoint.Name, apiErr.Endpoint)
}

func TestRecordIterator_AuthErrorPropagation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)

	tokens := mocks.NewMockTokenSource(ctrl)
	authErr := models.NewAuthenticationFailed("auth_token", "refresh grant exchange failed", nil)
	tokens.EXPECT().
		EnsureFresh(gomock.Any(), gomock.Any()).
		Return(models.AuthToken{}, authErr)

	svc := NewAppAPIService(client, tokens, nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	assert.False(t, it.Next(context.Background()))
	assert.True(t, models.IsKind(it.Err(), models.KindAuthenticationFailed))
}

func TestRecordIterator_TokenRenewalBetweenPages(t *testing.T) {
	ctrl := gomock.NewController(t)

	renewed := models.AuthToken{
		AccessToken:  "renewed_access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	tokens := mocks.NewMockTokenSource(ctrl)
	tokens.EXPECT().
		EnsureFresh(gomock.Any(), gomock.Any()).
		Return(renewed, nil).
		Times(2)

	client := mocks.NewMockAppAPIDriver(ctrl)
	gomock.InOrder(
		client.EXPECT().
			Get(gomock.Any(), "renewed_access", gomock.Any(), gomock.Any()).
			Return(illustPage("https://app-api.pixiv.net/v1/illust/ranking?mode=day&offset=1&filter=for_android", 1), nil),
		client.EXPECT().
			Get(gomock.Any(), "renewed_access", gomock.Any(), gomock.Any()).
			Return(illustPage(nil, 2), nil),
	)

	svc := NewAppAPIService(client, tokens, nil)

	stale := models.AuthToken{
		AccessToken:  "stale_access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	it := svc.IllustRankings(stale, models.FilterForAndroid, models.RankModeDay)

	records := collectAll(t, it)

	require.NoError(t, it.Err())
	assert.Len(t, records, 2)
	assert.Equal(t, "renewed_access", it.Token().AccessToken,
		"the iterator exposes the latest token snapshot")
}

func TestRecordIterator_EarlyAbandonment(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)
	// One page request only: walking away mid-page must not fetch further
	client.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(illustPage("https://app-api.pixiv.net/v1/illust/ranking?mode=day&offset=3&filter=for_android", 1, 2, 3), nil).
		Times(1)

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	require.True(t, it.Next(context.Background()))
	require.True(t, it.Next(context.Background()))
	// Abandon the iterator here; the controller verifies no second request
}

func TestRecordIterator_Decode(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAppAPIDriver(ctrl)
	client.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[string]interface{}{
			"illusts": []interface{}{
				map[string]interface{}{
					"id":    float64(129899459),
					"title": "Sample",
					"type":  "illust",
				},
			},
		}, nil)

	svc := NewAppAPIService(client, passthroughTokens(ctrl), nil)
	it := svc.IllustRankings(freshToken(), models.FilterForAndroid, models.RankModeDay)

	require.True(t, it.Next(context.Background()))

	var illust models.Illust
	require.NoError(t, it.Decode(&illust))
	assert.Equal(t, int64(129899459), illust.ID)
	assert.Equal(t, "Sample", illust.Title)
}
