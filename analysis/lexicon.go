package analysis

// Term lists are matched on whole tokens. Multi-word entries match consecutive tokens.
var (
	EmotionalTerms = []string{
		"shocking", "devastating", "incredible", "unbelievable", "outrageous",
		"stunning", "mind-blowing", "epic", "horrifying", "terrifying",
	}

	AbsoluteTerms = []string{
		"always", "never", "all", "none", "every", "completely", "totally",
		"absolutely", "definitely", "certainly",
	}

	ConspiracyTerms = []string{
		"cover-up", "conspiracy", "hidden truth", "they dont want you to know",
		"they don't want you to know", "secret agenda", "mainstream media lies",
		"wake up sheeple",
	}

	// LoadedTerms is the catch-all list. Matches are reported and scored but
	// do not contribute to the overall bias score.
	LoadedTerms = []string{
		"obviously", "clearly", "everyone knows", "so-called", "undeniably",
		"wake up", "radical", "extreme", "disgraceful", "propaganda",
	}
)

var claimMarkers = newTermSet(
	// causal verbs
	"causes", "cause", "caused", "leads", "led", "results", "resulted",
	"increases", "increased", "reduces", "reduced", "decreases", "decreased",
	"shows", "showed", "shown", "demonstrates", "demonstrated", "proves", "proved",
	"found", "finds", "linked", "associated", "contributes", "triggers", "prevents",
	// evidentiary nouns
	"study", "studies", "research", "researchers", "scientists", "evidence", "data",
	"survey", "trial", "trials", "experiment", "experiments", "analysis", "report",
	"journal", "published", "findings", "according",
	// quantifiers
	"percent", "percentage", "majority", "minority", "half", "hundred", "thousand",
	"million", "billion", "most", "average", "twice", "double", "triple",
)

var stopWords = newTermSet(
	"the", "is", "at", "which", "on", "and", "or", "but", "in", "with", "for",
	"from", "up", "about", "into", "through", "during", "before", "after",
	"above", "below", "between", "among", "throughout", "are", "was", "were",
	"this", "that", "these", "those", "has", "have", "had", "not", "its", "their",
)

type termSet map[string]struct{}

func newTermSet(terms ...string) termSet {
	s := make(termSet, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}

	return s
}

func (s termSet) has(t string) bool {
	_, ok := s[t]
	return ok
}
