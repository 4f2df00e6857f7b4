package edge

import (
	"context"
	"net/url"
	"strconv"

	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// page is one response of a list endpoint.
type page[T any] struct {
	Items      []T         `json:"items"`
	LastRecord *FlexString `json:"lastRecord"`
}

// listAll follows lastRecord cursors until the list is exhausted.
// An absent, null or empty cursor ends the walk, as does an empty page.
// A page shorter than the requested limit does not; Edge may cap page
// sizes below it. A cursor that was already seen ends the walk too.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	seen := make(map[string]struct{})
	cursor := ""

	for {
		query := url.Values{"limit": {strconv.Itoa(c.pageSize)}}
		if cursor != "" {
			query.Set("lastRecord", cursor)
		}

		var p page[T]
		if err := c.getJSON(ctx, path, query, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Items...)

		if len(p.Items) == 0 || p.LastRecord == nil || *p.LastRecord == "" {
			return all, nil
		}

		next := string(*p.LastRecord)
		if _, ok := seen[next]; ok {
			logging.FromContext(ctx).Warn().
				Str("path", path).
				Str("last_record", next).
				Msg("Pagination cursor repeated, stopping")
			return all, nil
		}
		seen[next] = struct{}{}
		cursor = next
	}
}
