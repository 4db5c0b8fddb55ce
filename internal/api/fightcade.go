package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fightcade-tracker/internal/constants"
	"fightcade-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

const apiURL = "https://www.fightcade.com/api/"

// FightcadeClient talks to the public Fightcade replay API. All requests are
// POSTs against a single endpoint with a "req" discriminator in the body.
type FightcadeClient struct {
	client *fasthttp.Client
}

func NewFightcadeClient() *FightcadeClient {
	return &FightcadeClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Quark is one replay record as returned by the API.
type Quark struct {
	QuarkID     string        `json:"quarkid"`
	ChannelName string        `json:"channelname"`
	Date        int64         `json:"date"` // unix millis
	Players     []QuarkPlayer `json:"players"`
}

type QuarkPlayer struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// MatchRecord converts a replay into a match record. Replays with fewer than
// two players carry no result and are reported as not ok.
func (q Quark) MatchRecord() (domain.MatchRecord, bool) {
	if len(q.Players) < 2 {
		return domain.MatchRecord{}, false
	}
	p1, p2 := q.Players[0], q.Players[1]
	if domain.CanonicalID(p1.Name) == "" || domain.CanonicalID(p2.Name) == "" {
		return domain.MatchRecord{}, false
	}
	if domain.CanonicalID(p1.Name) == domain.CanonicalID(p2.Name) {
		return domain.MatchRecord{}, false
	}
	return domain.MatchRecord{
		Date:    time.UnixMilli(q.Date).UTC().Format(time.RFC3339),
		Game:    q.ChannelName,
		Player1: p1.Name,
		Player2: p2.Name,
		Score1:  p1.Score,
		Score2:  p2.Score,
	}, true
}

type searchQuarksRequest struct {
	Req      string `json:"req"`
	Username string `json:"username"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type searchQuarksResponse struct {
	Res     string `json:"res"`
	Results struct {
		Results []Quark `json:"results"`
		Count   int     `json:"count"`
	} `json:"results"`
}

type getUserRequest struct {
	Req      string `json:"req"`
	Username string `json:"username"`
}

type getUserResponse struct {
	Res string `json:"res"`
}

// SearchQuarks fetches one page of a user's replay history.
func (c *FightcadeClient) SearchQuarks(ctx context.Context, username string, limit, offset int) ([]Quark, error) {
	resp, err := doRequest[searchQuarksResponse](ctx, c, searchQuarksRequest{
		Req:      "searchquarks",
		Username: username,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}
	if resp.Res != "OK" {
		return nil, fmt.Errorf("searchquarks returned %q for %s", resp.Res, username)
	}
	return resp.Results.Results, nil
}

// UserExists checks whether the user id is known to Fightcade.
func (c *FightcadeClient) UserExists(ctx context.Context, username string) (bool, error) {
	resp, err := doRequest[getUserResponse](ctx, c, getUserRequest{
		Req:      "getuser",
		Username: username,
	})
	if err != nil {
		return false, err
	}
	return resp.Res == "OK", nil
}

func doRequest[T any](ctx context.Context, client *FightcadeClient, body any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(apiURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := client.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from fightcade api", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
