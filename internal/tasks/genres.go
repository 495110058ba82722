package tasks

import "strings"

// genreSubstitutions folds common spelling variants into one label.
var genreSubstitutions = map[string]string{
	"r&b":              "R&B",
	"rnb":              "R&B",
	"rhythm and blues": "R&B",
	"hip hop":          "Hip Hop",
	"hip-hop":          "Hip Hop",
	"hiphop":           "Hip Hop",
	"rock n roll":      "Rock & Roll",
	"rock and roll":    "Rock & Roll",
	"drum n bass":      "Drum & Bass",
	"drum and bass":    "Drum & Bass",
	"dnb":              "Drum & Bass",
	"edm":              "Electronic",
	"electronica":      "Electronic",
}

// junkGenreTags are folksonomy noise, not genres.
var junkGenreTags = map[string]bool{
	"seen live":      true,
	"favourite":      true,
	"favorite":       true,
	"spotify":        true,
	"unknown":        true,
	"other":          true,
	"others":         true,
	"misc":           true,
	"miscellaneous":  true,
	"various":        true,
	"test":           true,
	"check out":      true,
	"check this out": true,
	"good":           true,
	"great":          true,
	"awesome":        true,
	"cool":           true,
	"amazing":        true,
	"file fix":       true,
}

// priorityGenres are broad labels floated to the front of a normalized tag
// list so first-tag-wins assignment prefers general buckets over narrow ones.
var priorityGenres = []string{
	"Rock", "Pop", "Hip Hop", "Electronic", "Jazz", "Classical",
	"R&B", "Folk", "Country", "Metal", "Blues", "Soul", "Funk",
}

// lowercaseGenreWords stay lowercase when title-casing a genre label.
var lowercaseGenreWords = map[string]bool{
	"&": true, "and": true, "n": true, "of": true, "the": true,
	"in": true, "at": true, "on": true, "with": true,
}

// uppercaseGenreWords are abbreviations kept fully uppercase.
var uppercaseGenreWords = map[string]bool{
	"DJ": true, "MC": true, "UK": true, "US": true,
	"EDM": true, "R&B": true, "D&B": true,
}

// normalizeGenres cleans a raw tag list into deduplicated, consistently
// cased genre labels, with broad priority genres moved to the front. Input
// ordering is otherwise preserved, so the first element is the label the
// classifier assigns.
func normalizeGenres(genres []string) []string {
	var normalized []string
	seen := make(map[string]bool, len(genres))

	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" || junkGenreTags[strings.ToLower(g)] {
			continue
		}

		label, ok := genreSubstitutions[strings.ToLower(g)]
		if !ok {
			label = titleCaseGenre(g)
		}

		if seen[label] {
			continue
		}
		seen[label] = true
		normalized = append(normalized, label)
	}

	// Walk the priority list backwards so the earliest priority genre ends
	// up first.
	for i := len(priorityGenres) - 1; i >= 0; i-- {
		priority := priorityGenres[i]
		for j, label := range normalized {
			if label == priority {
				normalized = append(normalized[:j], normalized[j+1:]...)
				normalized = append([]string{priority}, normalized...)
				break
			}
		}
	}

	return normalized
}

func titleCaseGenre(genre string) string {
	words := strings.Fields(genre)
	for i, word := range words {
		switch {
		case lowercaseGenreWords[strings.ToLower(word)]:
			words[i] = strings.ToLower(word)
		case uppercaseGenreWords[strings.ToUpper(word)]:
			words[i] = strings.ToUpper(word)
		default:
			runes := []rune(word)
			words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
		}
	}
	return strings.Join(words, " ")
}
