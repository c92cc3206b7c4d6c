package ballchasing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// listPageSize is the page size requested from the listing endpoint.
const listPageSize = 200

// ListGroupReplays returns the ID of every replay in a group, in the
// order the API lists them. The listing endpoint paginates with cursor
// URLs: each page carries an absolute "next" URL until the last one.
func (c *Client) ListGroupReplays(ctx context.Context, groupID string) ([]string, error) {
	var ids []string

	pageURL := c.baseURL + "/replays"
	query := url.Values{
		"group": {groupID},
		"count": {strconv.Itoa(listPageSize)},
	}

	for {
		body, err := c.Get(ctx, pageURL, query)
		if err != nil {
			return nil, err
		}

		var page replayPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("ballchasing: parse replay list: %w", err)
		}

		for _, stub := range page.List {
			ids = append(ids, stub.ID)
		}
		slog.Debug("Ballchasing: fetched replay list page",
			"group", groupID,
			"page_size", len(page.List),
			"total", len(ids))

		if page.Next == "" {
			break
		}
		// The cursor URL already embeds group and count.
		pageURL = page.Next
		query = nil
	}

	return ids, nil
}

// GetReplay fetches the full replay detail and returns the payload
// exactly as received, so the archive keeps it verbatim.
func (c *Client) GetReplay(ctx context.Context, replayID string) ([]byte, error) {
	return c.Get(ctx, c.baseURL+"/replays/"+replayID, nil)
}

// ParseReplay decodes a replay detail payload.
func ParseReplay(raw []byte) (*Replay, error) {
	var replay Replay
	if err := json.Unmarshal(raw, &replay); err != nil {
		return nil, fmt.Errorf("ballchasing: parse replay: %w", err)
	}
	return &replay, nil
}
