package scheduler

import "math/rand/v2"

// PhraseCategory names a kind of status message shown to the prospect.
type PhraseCategory string

const (
	PhraseAvailable   PhraseCategory = "available"
	PhraseBusy        PhraseCategory = "busy"
	PhraseAlternative PhraseCategory = "alternative"
)

// Categories lists every category a PhraseProvider must answer.
var Categories = []PhraseCategory{PhraseAvailable, PhraseBusy, PhraseAlternative}

// PhraseProvider picks the wording for a scheduling status. Swapping the
// provider changes what a prospect can infer about the calendar without
// touching scheduling logic.
type PhraseProvider interface {
	Phrase(category PhraseCategory) string
}

// opaquePhrases never say how empty or full the calendar is.
var opaquePhrases = map[PhraseCategory][]string{
	PhraseAvailable: {
		"That time works.",
		"Great, I can fit you in then.",
		"Perfect, let's lock that in.",
		"That works on our side.",
	},
	PhraseBusy: {
		"That slot has just been taken.",
		"That time is already booked, I'm afraid.",
		"Unfortunately that one is spoken for.",
		"We can't do that exact time.",
	},
	PhraseAlternative: {
		"I could do one of these instead:",
		"How about one of these times?",
		"These would work on our side:",
	},
}

var plainPhrases = map[PhraseCategory]string{
	PhraseAvailable:   "The calendar is free at that time.",
	PhraseBusy:        "The calendar has a conflict at that time.",
	PhraseAlternative: "Free times nearby:",
}

// OpaquePhrases picks a random phrase from a fixed set per category.
type OpaquePhrases struct {
	pick func(n int) int
}

// NewOpaquePhrases returns the default, availability-hiding provider.
func NewOpaquePhrases() *OpaquePhrases {
	return &OpaquePhrases{pick: rand.IntN}
}

func (p *OpaquePhrases) Phrase(category PhraseCategory) string {
	set := opaquePhrases[category]
	if len(set) == 0 {
		return ""
	}
	return set[p.pick(len(set))]
}

// PlainPhrases states calendar status directly. For internal deployments
// and audits.
type PlainPhrases struct{}

func (PlainPhrases) Phrase(category PhraseCategory) string {
	return plainPhrases[category]
}

var defaultPhrases PhraseProvider = NewOpaquePhrases()

// RandomPhrase returns an opaque phrase for the category.
func RandomPhrase(category PhraseCategory) string {
	return defaultPhrases.Phrase(category)
}
