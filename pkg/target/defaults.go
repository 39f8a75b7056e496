package target

import (
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

func intPtr(i int) *int { return &i }

// Defaults returns the built-in target table. Config entries with the same
// name replace these.
func Defaults() map[string]Target {
	return map[string]Target{
		"gallery-first-thumbnail": {
			Description: "first item of the media picker grid",
			Strategies: []Strategy{
				{IDs: []string{"h4i", "h3g", "h0f"}, Child: intPtr(0)},
				{Criteria: match.Criteria{Class: "android.widget.GridView"}, Traversal: search.BFS, Child: intPtr(0)},
			},
		},
		"video-upload": {
			Description: "upload button on the composer",
			Strategies: []Strategy{
				{IDs: []string{"i98", "c0t", "vgc", "j_m", "je3"}, GestureOnly: true},
				{Square: &Square{Class: "android.widget.ImageView", Side: 98}, GestureOnly: true},
				{Square: &Square{Class: "android.widget.ImageView", Side: 63}, GestureOnly: true},
			},
		},
		"profile-menu": {
			Description: "unlabelled menu button at the top of the profile",
			Strategies: []Strategy{
				{Criteria: match.Criteria{Area: 5390, MaxTop: intPtr(200), NoID: true, NoDescription: true}},
			},
		},
		"bio": {
			Description: "bio field on the profile editor",
			Strategies: []Strategy{
				{Criteria: match.Criteria{DescriptionPrefix: "Bio"}},
			},
		},
	}
}
