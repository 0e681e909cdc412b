package recommender

import "strings"

// Genre is a catalog genre code. The set is closed; see Genres.
type Genre string

const (
	GenreFantasy        Genre = "fantasy"
	GenreSciFi          Genre = "sci_fi"
	GenreThrillerHorror Genre = "thriller_horror"
	GenreDetective      Genre = "detective"
	GenreRomance        Genre = "romance"
	GenreClassic        Genre = "classic"
	GenreProse          Genre = "prose"
	GenreHistory        Genre = "history"
	GenreBiography      Genre = "biography"
	GenrePsychology     Genre = "psychology"
	GenreSelfHelp       Genre = "self_help"
	GenreBusiness       Genre = "business"
	GenreHealth         Genre = "health"
	GenreYoungAdult     Genre = "young_adult"
	GenreNonFiction     Genre = "non_fiction"
	GenreComics         Genre = "comics"
	GenreChildren       Genre = "children"
	GenreAudio          Genre = "audio"
	GenreOther          Genre = "other"
)

// Genres lists every known genre in display order.
var Genres = []Genre{
	GenreFantasy, GenreSciFi, GenreThrillerHorror, GenreDetective, GenreRomance,
	GenreClassic, GenreProse, GenreHistory, GenreBiography, GenrePsychology,
	GenreSelfHelp, GenreBusiness, GenreHealth, GenreYoungAdult, GenreNonFiction,
	GenreComics, GenreChildren, GenreAudio, GenreOther,
}

var genreLabels = map[Genre]string{
	GenreFantasy:        "Fantasy",
	GenreSciFi:          "Science fiction",
	GenreThrillerHorror: "Thriller & horror",
	GenreDetective:      "Detective",
	GenreRomance:        "Romance",
	GenreClassic:        "Classics",
	GenreProse:          "Contemporary prose",
	GenreHistory:        "History",
	GenreBiography:      "Biography",
	GenrePsychology:     "Psychology",
	GenreSelfHelp:       "Self-help",
	GenreBusiness:       "Business",
	GenreHealth:         "Health",
	GenreYoungAdult:     "Young adult",
	GenreNonFiction:     "Non-fiction",
	GenreComics:         "Comics",
	GenreChildren:       "Children",
	GenreAudio:          "Audiobooks",
	GenreOther:          "Other",
}

// Label is the display name of g, or the raw code for an unknown genre.
func (g Genre) Label() string {
	if l, ok := genreLabels[g]; ok {
		return l
	}
	return string(g)
}

var knownGenres = func() map[Genre]struct{} {
	m := make(map[Genre]struct{}, len(Genres))
	for _, g := range Genres {
		m[g] = struct{}{}
	}
	return m
}()

// ParseGenre normalizes s and reports whether it names a known genre.
func ParseGenre(s string) (Genre, bool) {
	g := Genre(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownGenres[g]
	return g, ok
}

// Valid reports whether g is one of the known genre codes.
func (g Genre) Valid() bool {
	_, ok := knownGenres[g]
	return ok
}

// Preference weights stored per (user, genre).
const (
	WeightPreferred = 1
	WeightBanned    = -1
)

// GenreWeights maps genres to a signed preference weight.
type GenreWeights map[Genre]int

// Weight returns the weight for g. Unknown and unmapped genres weigh 0.
func (w GenreWeights) Weight(g Genre) int {
	if !g.Valid() {
		return 0
	}
	return w[g]
}

// Banned returns the genres with a negative weight, in Genres order.
func (w GenreWeights) Banned() []Genre {
	var out []Genre
	for _, g := range Genres {
		if w[g] < 0 {
			out = append(out, g)
		}
	}
	return out
}

// Preferred returns the genres with a positive weight, in Genres order.
func (w GenreWeights) Preferred() []Genre {
	var out []Genre
	for _, g := range Genres {
		if w[g] > 0 {
			out = append(out, g)
		}
	}
	return out
}

// IsBanned reports whether g carries a negative weight.
func (w GenreWeights) IsBanned(g Genre) bool {
	return w.Weight(g) < 0
}
