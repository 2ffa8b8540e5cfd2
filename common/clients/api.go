package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
)

// APIClient talks to the roster API.
// Every call requires a ctx carrying the caller's id via WithUserID().
type APIClient struct {
	baseURL string
	http    *HTTPClient
	logger  Logger
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string, timeout time.Duration, logger Logger) *APIClient {
	httpClient := &http.Client{
		Timeout: timeout,
	}

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(httpClient, logger),
		logger:  logger,
	}
}

// Me returns the calling user
func (c *APIClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.http.DoJSON(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRunLists returns all run lists, most recent first
func (c *APIClient) ListRunLists(ctx context.Context) ([]models.RunList, error) {
	var out struct {
		RunLists []models.RunList `json:"runLists"`
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, c.baseURL+"/api/run-lists", nil, &out); err != nil {
		return nil, err
	}
	return out.RunLists, nil
}

// ListRaces returns the races of a run list in order
func (c *APIClient) ListRaces(ctx context.Context, runListID uuid.UUID) ([]models.Race, error) {
	endpoint := fmt.Sprintf("%s/api/run-lists/%s/races", c.baseURL, url.PathEscape(runListID.String()))

	var out struct {
		Races []models.Race `json:"races"`
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Races, nil
}

// ReorderRaces submits the full race order of a run list. A nil runListID lets
// the server infer the run list from the races.
func (c *APIClient) ReorderRaces(ctx context.Context, runListID uuid.UUID, raceIDs []uuid.UUID) ([]models.Race, error) {
	req := models.ReorderRacesRequest{RaceIDs: toStrings(raceIDs)}
	if runListID != uuid.Nil {
		req.RunListID = runListID.String()
	}

	var out models.ReorderRacesResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/api/races/reorder", req, &out); err != nil {
		return nil, err
	}

	c.logger.Info("races reordered", "run_list_id", runListID, "count", len(out.Races))
	return out.Races, nil
}

// ListMembers returns the roster of a race in order
func (c *APIClient) ListMembers(ctx context.Context, raceID uuid.UUID) ([]models.Member, error) {
	endpoint := fmt.Sprintf("%s/api/races/%s/members", c.baseURL, url.PathEscape(raceID.String()))

	var out struct {
		Members []models.Member `json:"members"`
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// ReorderMembers submits the full roster order of a race
func (c *APIClient) ReorderMembers(ctx context.Context, raceID uuid.UUID, memberIDs []uuid.UUID) ([]models.Member, error) {
	endpoint := fmt.Sprintf("%s/api/races/%s/members/reorder", c.baseURL, url.PathEscape(raceID.String()))
	req := models.ReorderMembersRequest{MemberIDs: toStrings(memberIDs)}

	var out models.ReorderMembersResponse
	if err := c.http.DoJSON(ctx, http.MethodPatch, endpoint, req, &out); err != nil {
		return nil, err
	}

	c.logger.Info("members reordered", "race_id", raceID, "count", len(out.Members))
	return out.Members, nil
}

// Leaderboard returns the best lap per driver on track
func (c *APIClient) Leaderboard(ctx context.Context, track string) ([]models.LeaderboardEntry, error) {
	endpoint := fmt.Sprintf("%s/api/leaderboards/%s", c.baseURL, url.PathEscape(track))

	var out struct {
		Entries []models.LeaderboardEntry `json:"entries"`
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func toStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
