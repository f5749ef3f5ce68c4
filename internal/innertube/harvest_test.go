package innertube

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestHarvestVideoIDs(t *testing.T) {
	t.Run("nested browse response", func(t *testing.T) {
		root := decode(t, `{
			"contents": {
				"twoColumnBrowseResultsRenderer": {
					"tabs": [
						{"tabRenderer": {"content": {
							"richGridRenderer": {"contents": [
								{"richItemRenderer": {"content": {
									"videoRenderer": {"videoId": "dQw4w9WgXcQ"}
								}}},
								{"richItemRenderer": {"content": {
									"videoRenderer": {"videoId": "jNQXAC9IVRw"}
								}}},
								{"richSectionRenderer": {"content": {
									"richShelfRenderer": {"contents": [
										{"richItemRenderer": {"content": {
											"videoRenderer": {"videoId": "dQw4w9WgXcQ"}
										}}}
									]}
								}}}
							]}
						}}}
					]
				}
			}
		}`)

		ids := HarvestVideoIDs(root)
		if len(ids) != 2 {
			t.Fatalf("got %d ids, want 2 (duplicate collapsed): %v", len(ids), ids)
		}
	})

	t.Run("unknown nodes skipped", func(t *testing.T) {
		root := decode(t, `{
			"frameworkUpdates": {"entityBatchUpdate": {"videoId": "hidden000xx"}},
			"contents": {"sectionListRenderer": {"contents": [
				{"itemSectionRenderer": {"contents": [
					{"videoRenderer": {"videoId": "visible0000"}}
				]}}
			]}}
		}`)

		ids := HarvestVideoIDs(root)
		if len(ids) != 1 || ids[0] != "visible0000" {
			t.Errorf("harvest descended into an unknown node: %v", ids)
		}
	})

	t.Run("non-map input", func(t *testing.T) {
		if ids := HarvestVideoIDs("not a tree"); len(ids) != 0 {
			t.Errorf("expected no ids, got %v", ids)
		}
		if ids := HarvestVideoIDs(nil); len(ids) != 0 {
			t.Errorf("expected no ids, got %v", ids)
		}
	})
}

func TestSubscribersFromChannelHeader(t *testing.T) {
	t.Run("legacy c4 header", func(t *testing.T) {
		data := decode(t, `{"header": {"c4TabbedHeaderRenderer": {
			"subscriberCountText": {"simpleText": "1.5万人の登録者"}
		}}}`)
		count, ok := subscribersFromChannelHeader(data)
		if !ok || count != 15000 {
			t.Errorf("got (%d, %v), want (15000, true)", count, ok)
		}
	})

	t.Run("page header metadata rows", func(t *testing.T) {
		data := decode(t, `{"header": {"pageHeaderRenderer": {"content": {
			"pageHeaderViewModel": {"metadata": {"contentMetadataViewModel": {
				"metadataRows": [
					{"metadataParts": [{"text": {"text": "@somehandle"}}]},
					{"metadataParts": [
						{"text": {"text": "1.2K subscribers"}},
						{"text": {"text": "87 videos"}}
					]}
				]
			}}}
		}}}}`)
		count, ok := subscribersFromChannelHeader(data)
		if !ok || count != 1200 {
			t.Errorf("got (%d, %v), want (1200, true)", count, ok)
		}
	})

	t.Run("runs text form", func(t *testing.T) {
		data := decode(t, `{"header": {"c4TabbedHeaderRenderer": {
			"subscriberCountText": {"runs": [{"text": "530"}, {"text": "K"}, {"text": " subscribers"}]}
		}}}`)
		count, ok := subscribersFromChannelHeader(data)
		if !ok || count != 530000 {
			t.Errorf("got (%d, %v), want (530000, true)", count, ok)
		}
	})

	t.Run("no header", func(t *testing.T) {
		if _, ok := subscribersFromChannelHeader(decode(t, `{}`)); ok {
			t.Error("expected unavailable for empty response")
		}
	})
}
