package notebook

import (
	"sort"
	"strings"
)

// Cell tags marking the intro-table cells a notebook's metadata is
// harvested from.
const (
	tagIntroTitle = "intro_info_title"
	tagIntroTags  = "intro_info_tags"
)

const (
	titleOpen = `<td class="header_text">`
	tagsOpen  = `<td class="shield_right" id="tags">`
	cellClose = `</td>`
	tagSep    = "&#9729;"
)

// signalTags are the tag values that name a signal type on the
// group-by-signal index page.
var signalTags = map[string]bool{
	"ecg":  true,
	"emg":  true,
	"eeg":  true,
	"eda":  true,
	"bvp":  true,
	"acc":  true,
	"rip":  true,
	"temp": true,
	"spo2": true,
}

// Info summarizes a notebook for the group-by index pages.
type Info struct {
	File     string   `json:"file"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags,omitempty"`
	Stars    int      `json:"stars"`
}

// Harvest extracts the title, tag list and difficulty rating from the
// intro table cells of nb. Missing cells leave the corresponding fields
// zero.
func Harvest(nb *Notebook, category, name string) Info {
	info := Info{File: name, Category: category}
	for _, cell := range nb.Cells {
		source := string(cell.Source)
		if cell.Metadata.HasTag(tagIntroTitle) {
			info.Title = between(source, titleOpen, cellClose)
		}
		if cell.Metadata.HasTag(tagIntroTags) {
			info.Tags = splitTags(between(source, tagsOpen, cellClose))
			info.Stars = strings.Count(source, "checked")
		}
	}
	return info
}

func between(s, open, close string) string {
	_, tail, ok := strings.Cut(s, open)
	if !ok {
		return ""
	}
	head, _, _ := strings.Cut(tail, close)
	return strings.TrimSpace(head)
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(s, tagSep) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ByDifficulty groups notebooks by their star rating.
func ByDifficulty(infos []Info) map[int][]Info {
	groups := make(map[int][]Info)
	for _, info := range infos {
		groups[info.Stars] = append(groups[info.Stars], info)
	}
	return groups
}

// ByTag groups notebooks by each of their tags. A notebook carrying
// several tags appears in several groups.
func ByTag(infos []Info) map[string][]Info {
	groups := make(map[string][]Info)
	for _, info := range infos {
		for _, tag := range info.Tags {
			groups[tag] = append(groups[tag], info)
		}
	}
	return groups
}

// BySignalType groups notebooks by the signal types named in their tags,
// ignoring tags that are not signal names.
func BySignalType(infos []Info) map[string][]Info {
	groups := make(map[string][]Info)
	for _, info := range infos {
		for _, tag := range info.Tags {
			if signalTags[strings.ToLower(tag)] {
				groups[strings.ToLower(tag)] = append(groups[strings.ToLower(tag)], info)
			}
		}
	}
	return groups
}

// SortedKeys returns the tag group names in lexical order.
func SortedKeys(groups map[string][]Info) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
