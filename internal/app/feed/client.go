package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// DefaultBaseURL is the public registrar browse service.
const DefaultBaseURL = "https://coursys.sfu.ca"

// ClientConfig configures the browse client.
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// Codec decodes semester codes; nil means semester.Default
	Codec *semester.Codec
}

// Client fetches browse rows from the registrar and parses them.
type Client struct {
	baseURL string
	codec   semester.Codec
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

type browseResponse struct {
	Data [][]string `json:"data"`
}

// NewClient creates a browse client. A non-positive rate disables limiting.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	codec := semester.Default
	if cfg.Codec != nil {
		codec = *cfg.Codec
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		codec:   codec,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  logger,
	}
}

// FetchCourseSections returns all sections of dept/number in the given
// semester. Upstream failures are logged and produce an empty result; the only
// returned error is an invalid semester code.
func (c *Client) FetchCourseSections(ctx context.Context, dept, number string, semesterCode int) (*models.BrowseResult, error) {
	sem, err := c.codec.Decode(semesterCode)
	if err != nil {
		return nil, err
	}

	dept = strings.ToUpper(strings.TrimSpace(dept))
	number = strings.TrimSpace(number)
	result := &models.BrowseResult{
		Dept:         dept,
		CourseNumber: number,
		Year:         sem.Year,
		Term:         sem.Term,
		SemesterCode: sem.Code,
		Offerings:    []models.OfferingRecord{},
	}

	rows, err := c.fetchRows(ctx, dept, number, semesterCode)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("dept", dept).
			Str("number", number).
			Int("semester", semesterCode).
			Msg("Browse feed unavailable, returning empty result")
		return result, nil
	}

	malformed := 0
	for _, row := range rows {
		rec := parseRow(row, sem)
		if rec.Title != "" {
			result.Title = rec.Title
		}
		if rec.Malformed {
			malformed++
		}
		result.Offerings = append(result.Offerings, rec)
	}

	if malformed > 0 {
		c.logger.Warn().
			Err(apperrors.ErrFeedRowMalformed).
			Str("dept", dept).
			Str("number", number).
			Int("semester", semesterCode).
			Int("malformed", malformed).
			Int("rows", len(rows)).
			Msg("Browse feed contained malformed rows")
	}

	return result, nil
}

func (c *Client) fetchRows(ctx context.Context, dept, number string, semesterCode int) ([][]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", apperrors.ErrFeedUnavailable, err)
	}

	q := url.Values{}
	q.Set("subject[]", dept)
	q.Set("number[]", number)
	q.Set("semester[]", strconv.Itoa(semesterCode))
	q.Set("tabledata", "yes")
	endpoint := c.baseURL + "/browse/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrFeedUnavailable, resp.StatusCode)
	}

	var body browseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", apperrors.ErrFeedUnavailable, err)
	}
	return body.Data, nil
}
