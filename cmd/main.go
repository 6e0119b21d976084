package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pixiv-app-client/config"
	"pixiv-app-client/driver"
	"pixiv-app-client/models"
	"pixiv-app-client/service"
	"pixiv-app-client/usecase"
	"pixiv-app-client/utils"
)

func main() {
	// Parse command line flags
	endpoint := flag.String("endpoint", "rankings", "Endpoint to fetch: rankings, recommended, bookmarks, bookmark-tags, comments, related, articles")
	userID := flag.String("user-id", "", "Pixiv user ID (bookmarks, bookmark-tags)")
	illustID := flag.String("illust-id", "", "Pixiv illustration ID (comments, related)")
	mode := flag.String("mode", string(models.RankModeDay), "Ranking mode (rankings)")
	restrict := flag.String("restrict", string(models.RestrictPublic), "Work restriction: public or private")
	tag := flag.String("tag", "", "Bookmark tag filter (bookmarks)")
	category := flag.String("category", string(models.ArticleCategoryAll), "Article category (articles)")
	filter := flag.String("filter", string(models.FilterForAndroid), "Platform filter")
	limit := flag.Int("limit", 30, "Maximum number of records to fetch, 0 for all")
	flag.Parse()

	// Setup structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("pixiv-app-client starting",
		"service", cfg.ServiceName,
		"endpoint", *endpoint,
		"api_base_url", cfg.Pixiv.APIBaseURL)

	ctx := context.Background()
	if err := run(ctx, cfg, logger, fetchOptions{
		endpoint: *endpoint,
		userID:   *userID,
		illustID: *illustID,
		mode:     models.RankMode(*mode),
		restrict: models.Restrict(*restrict),
		tag:      *tag,
		category: models.ArticleCategory(*category),
		filter:   models.Filter(*filter),
		limit:    *limit,
	}); err != nil {
		logger.Error("Fetch failed", "error", err)
		os.Exit(1)
	}
}

type fetchOptions struct {
	endpoint string
	userID   string
	illustID string
	mode     models.RankMode
	restrict models.Restrict
	tag      string
	category models.ArticleCategory
	filter   models.Filter
	limit    int
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts fetchOptions) error {
	oauth2Client := driver.NewOAuth2Client(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.BaseURL, logger)
	apiClient := driver.NewAppAPIClient(cfg.Pixiv.APIBaseURL, logger)
	oauth2Client.SetTimeout(cfg.Pixiv.HTTPTimeout)
	apiClient.SetTimeout(cfg.Pixiv.HTTPTimeout)

	tokens := service.NewTokenServiceWithBuffer(oauth2Client, logger, cfg.OAuth.RefreshBuffer)
	appAPI := service.NewAppAPIService(apiClient, tokens, logger)

	monitor := utils.NewMonitor(nil, logger)
	defer monitor.Close()
	tokens.SetMonitor(monitor)
	appAPI.SetMonitor(monitor)

	token, err := bootstrapToken(ctx, cfg, tokens)
	if err != nil {
		return err
	}

	it, err := buildIterator(appAPI, token, opts)
	if err != nil {
		return err
	}

	collector := usecase.NewRecordCollector(logger)
	records, err := collector.Collect(ctx, it, opts.limit)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	logger.Info("Fetch completed", "endpoint", opts.endpoint, "record_count", len(records))
	return nil
}

// bootstrapToken obtains the first token: from a stored refresh token when
// one is configured, otherwise by password login, prompting when the
// password is not in the environment.
func bootstrapToken(ctx context.Context, cfg *config.Config, tokens *service.TokenService) (models.AuthToken, error) {
	if cfg.OAuth.RefreshToken != "" {
		return tokens.FromRefreshToken(ctx, cfg.OAuth.RefreshToken)
	}

	username := cfg.OAuth.Username
	if username == "" {
		return models.AuthToken{}, fmt.Errorf("PIXIV_USERNAME or PIXIV_REFRESH_TOKEN must be set")
	}

	password := cfg.OAuth.Password
	if password == "" {
		var err error
		password, err = getPassword(fmt.Sprintf("Password for %s: ", username))
		if err != nil {
			return models.AuthToken{}, err
		}
	}

	return tokens.Login(ctx, username, password)
}

func buildIterator(appAPI *service.AppAPIService, token models.AuthToken, opts fetchOptions) (*service.RecordIterator, error) {
	switch opts.endpoint {
	case "rankings":
		return appAPI.IllustRankings(token, opts.filter, opts.mode), nil
	case "recommended":
		return appAPI.RecommendedIllusts(token, opts.filter, true, true), nil
	case "bookmarks":
		if opts.userID == "" {
			return nil, fmt.Errorf("-user-id is required for the bookmarks endpoint")
		}
		return appAPI.UserBookmarks(token, opts.userID, opts.restrict, opts.tag), nil
	case "bookmark-tags":
		if opts.userID == "" {
			return nil, fmt.Errorf("-user-id is required for the bookmark-tags endpoint")
		}
		return appAPI.UserBookmarkTags(token, opts.userID, opts.restrict), nil
	case "comments":
		if opts.illustID == "" {
			return nil, fmt.Errorf("-illust-id is required for the comments endpoint")
		}
		return appAPI.IllustComments(token, opts.illustID), nil
	case "related":
		if opts.illustID == "" {
			return nil, fmt.Errorf("-illust-id is required for the related endpoint")
		}
		return appAPI.RelatedIllusts(token, opts.illustID, opts.filter), nil
	case "articles":
		return appAPI.SpotlightArticles(token, opts.filter, opts.category), nil
	default:
		return nil, fmt.Errorf("unknown endpoint %q", opts.endpoint)
	}
}
