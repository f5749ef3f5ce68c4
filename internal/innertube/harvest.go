package innertube

import (
	"strings"

	"github.com/halfminthink-bit/youtube-search/internal/subcount"
)

// containerKeys are the response-node shapes known to carry browseable
// content. The harvest descends only through these; anything else is an
// unknown node and is skipped, which keeps the traversal robust to schema
// drift without walking arbitrary dynamic structure.
var containerKeys = []string{
	"contents",
	"content",
	"items",
	"tabs",
	"tabRenderer",
	"twoColumnBrowseResultsRenderer",
	"sectionListRenderer",
	"itemSectionRenderer",
	"richGridRenderer",
	"richItemRenderer",
	"richSectionRenderer",
	"richShelfRenderer",
	"shelfRenderer",
	"expandedShelfContentsRenderer",
	"horizontalListRenderer",
	"gridRenderer",
	"videoRenderer",
	"gridVideoRenderer",
	"compactVideoRenderer",
	"reelItemRenderer",
	"shortsLockupViewModel",
}

// HarvestVideoIDs walks a browse response and gathers every videoId carried
// by a known node shape. Candidate validation (length, type) is left to the
// collector; duplicates are already collapsed here.
func HarvestVideoIDs(root any) []string {
	seen := make(map[string]struct{})
	var ids []string
	harvest(root, seen, &ids)
	return ids
}

func harvest(node any, seen map[string]struct{}, ids *[]string) {
	switch n := node.(type) {
	case map[string]any:
		if id, ok := n["videoId"].(string); ok {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				*ids = append(*ids, id)
			}
		}
		for _, key := range containerKeys {
			if child, ok := n[key]; ok {
				harvest(child, seen, ids)
			}
		}
	case []any:
		for _, item := range n {
			harvest(item, seen, ids)
		}
	}
}

// subscribersFromChannelHeader digs the subscriber count out of a channel
// browse response. YouTube A/B tests two header layouts: the legacy
// c4TabbedHeaderRenderer with a dedicated subscriberCountText, and the newer
// pageHeaderRenderer where the count hides in free-text metadata rows.
func subscribersFromChannelHeader(data any) (int64, bool) {
	header, ok := mapAt(data, "header")
	if !ok {
		return 0, false
	}

	if c4, ok := mapAt(header, "c4TabbedHeaderRenderer"); ok {
		if text := extractText(c4["subscriberCountText"]); text != "" {
			return subcount.Parse(text)
		}
	}

	rows, ok := sliceAt(header, "pageHeaderRenderer", "content", "pageHeaderViewModel",
		"metadata", "contentMetadataViewModel", "metadataRows")
	if !ok {
		return 0, false
	}
	for _, row := range rows {
		parts, ok := sliceAt(row, "metadataParts")
		if !ok {
			continue
		}
		for _, part := range parts {
			text := stringAt(part, "text", "text")
			if text == "" {
				continue
			}
			if strings.Contains(text, "登録者") || strings.Contains(strings.ToLower(text), "subscriber") {
				return subcount.Parse(text)
			}
		}
	}

	return 0, false
}

// extractText reads an InnerTube text object in either the simpleText or
// the runs form.
func extractText(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	if simple, ok := m["simpleText"].(string); ok {
		return simple
	}
	runs, ok := m["runs"].([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(stringAt(run, "text"))
	}
	return b.String()
}

// mapAt follows keys through nested maps.
func mapAt(node any, keys ...string) (map[string]any, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range keys {
		m, ok = m[key].(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return m, true
}

// sliceAt follows keys through nested maps and expects a list at the end.
func sliceAt(node any, keys ...string) ([]any, bool) {
	if len(keys) > 1 {
		m, ok := mapAt(node, keys[:len(keys)-1]...)
		if !ok {
			return nil, false
		}
		node = m
	}
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	s, ok := m[keys[len(keys)-1]].([]any)
	return s, ok
}

// stringAt follows keys through nested maps and expects a string at the end.
func stringAt(node any, keys ...string) string {
	if len(keys) > 1 {
		m, ok := mapAt(node, keys[:len(keys)-1]...)
		if !ok {
			return ""
		}
		node = m
	}
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[keys[len(keys)-1]].(string)
	return s
}
