package entities

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

const untitledGroup = "Sem título"

var (
	trailingParens = regexp.MustCompile(`\s*\(.*?\)\s*$`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	uuidSuffix     = regexp.MustCompile(`[0-9a-fA-F-]{36}$`)
)

// DueSplit holds topics partitioned by due-ness.
type DueSplit struct {
	NeedsReview []*Topic
	Upcoming    []*Topic
}

// SplitByDue partitions topics into due and upcoming, both ascending by NextReview.
// The input slice is not modified.
func SplitByDue(topics []*Topic, now time.Time) DueSplit {
	var split DueSplit
	for _, t := range topics {
		if t.IsDue(now) {
			split.NeedsReview = append(split.NeedsReview, t)
		} else {
			split.Upcoming = append(split.Upcoming, t)
		}
	}

	SortByNextReview(split.NeedsReview)
	SortByNextReview(split.Upcoming)

	return split
}

// SortByNextReview sorts topics in place, earliest due first.
func SortByNextReview(topics []*Topic) {
	slices.SortStableFunc(topics, func(a, b *Topic) int {
		return a.NextReview.Compare(b.NextReview)
	})
}

// TopicGroup is a labelled bucket of topics.
type TopicGroup struct {
	Key    string
	Label  string
	Slug   string
	Topics []*Topic
}

// CycleLabel returns "R<n>" for the zero-based cycle index.
func CycleLabel(cycle int) string {
	return fmt.Sprintf("R%d", cycle+1)
}

// GroupByCycle buckets topics by current cycle, ascending.
func GroupByCycle(topics []*Topic) []TopicGroup {
	byCycle := make(map[int][]*Topic)
	for _, t := range topics {
		byCycle[t.CurrentCycle] = append(byCycle[t.CurrentCycle], t)
	}

	cycles := make([]int, 0, len(byCycle))
	for c := range byCycle {
		cycles = append(cycles, c)
	}
	slices.Sort(cycles)

	groups := make([]TopicGroup, 0, len(cycles))
	for _, c := range cycles {
		items := byCycle[c]
		SortByNextReview(items)
		label := CycleLabel(c)
		groups = append(groups, TopicGroup{
			Key:    label,
			Label:  label,
			Slug:   strings.ToLower(label),
			Topics: items,
		})
	}

	return groups
}

// GroupByTheme buckets topics by GroupKey of their title, ordered by label.
func GroupByTheme(topics []*Topic) []TopicGroup {
	index := make(map[string]int)
	var groups []TopicGroup

	for _, t := range topics {
		key := GroupKey(t.Title)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TopicGroup{
				Key:   key,
				Label: baseTitle(t.Title),
				Slug:  GroupSlug(t.Title),
			})
		}
		groups[i].Topics = append(groups[i].Topics, t)
	}

	for i := range groups {
		SortByNextReview(groups[i].Topics)
	}
	slices.SortStableFunc(groups, func(a, b TopicGroup) int {
		return strings.Compare(a.Key, b.Key)
	})

	return groups
}

func baseTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		title = untitledGroup
	}
	return strings.TrimSpace(trailingParens.ReplaceAllString(title, ""))
}

// GroupKey identifies the theme of a title: the title without a trailing
// parenthesised suffix, lower-cased.
func GroupKey(title string) string {
	return strings.ToLower(baseTitle(title))
}

// GroupSlug is the URL form of GroupKey.
func GroupSlug(title string) string {
	if s := slugify(baseTitle(title)); s != "" {
		return s
	}
	return "sem-titulo"
}

// TopicSlug builds "<slugified-title>-<id>", or just the id for unsluggable titles.
func TopicSlug(t *Topic) string {
	if s := slugify(t.Title); s != "" {
		return s + "-" + t.ID.String()
	}
	return t.ID.String()
}

// ExtractIDFromSlug returns the trailing uuid of a topic slug, or the slug itself.
func ExtractIDFromSlug(slug string) string {
	if m := uuidSuffix.FindString(slug); m != "" {
		return m
	}
	return slug
}

func slugify(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// Paginate returns the 1-based page of items. Page is clamped to [1, TotalPages].
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		return items, 1
	}
	total := TotalPages(len(items), pageSize)
	page = min(max(page, 1), total)

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, page
	}
	end := min(start+pageSize, len(items))

	return items[start:end], page
}

// TotalPages is never less than 1.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return max(1, (count+pageSize-1)/pageSize)
}
