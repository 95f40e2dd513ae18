/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pfr

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/franchise-cover/cover"
)

// ParsePairPage returns the player links found in the row headers of a pair
// page, in page order without repeats. Rows whose header has no link (column
// headings, spacer rows) are ignored.
func ParsePairPage(r io.Reader) ([]cover.PlayerID, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing pair page: %w", err)
	}

	seen := make(map[cover.PlayerID]struct{})
	var ids []cover.PlayerID
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		th := row.Find("th").First()
		if th.Length() == 0 {
			return
		}
		href, ok := th.Find("a").First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		id := cover.PlayerID(href)
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	})

	return ids, nil
}
