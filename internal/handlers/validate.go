package handlers

import (
	"fmt"
	"unicode/utf8"
)

// Validation limits for mood request fields. These guard the process, not
// the model: oversized inputs are rejected before any upstream call.
const (
	maxItemsPerKind = 25
	maxTextLen      = 2_000
	maxURLLen       = 2_000
	maxNameLen      = 200
	maxImageLen     = 15_000_000 // ~10 MB of image as base64
)

// validateMood checks mood request inputs and returns the first problem
// found, or "" when the request is acceptable. Emptiness of all three
// collections is the engine's call, not ours.
func validateMood(req moodRequest) string {
	if len(req.Texts) > maxItemsPerKind {
		return fmt.Sprintf("too many texts (max %d)", maxItemsPerKind)
	}
	if len(req.Images) > maxItemsPerKind {
		return fmt.Sprintf("too many images (max %d)", maxItemsPerKind)
	}
	if len(req.URLs) > maxItemsPerKind {
		return fmt.Sprintf("too many urls (max %d)", maxItemsPerKind)
	}

	for _, t := range req.Texts {
		if utf8.RuneCountInString(t) > maxTextLen {
			return fmt.Sprintf("text too long (max %d characters)", maxTextLen)
		}
	}
	for _, u := range req.URLs {
		if len(u) > maxURLLen {
			return fmt.Sprintf("url too long (max %d characters)", maxURLLen)
		}
	}
	for _, img := range req.Images {
		if len(img) > maxImageLen {
			return "image too large"
		}
	}

	if utf8.RuneCountInString(req.Name) > maxNameLen {
		return fmt.Sprintf("name too long (max %d characters)", maxNameLen)
	}
	return ""
}
