package callscript

import (
	"fmt"
	"strings"

	"leadintel/server/internal/format"
	"leadintel/server/internal/models"
)

// Tone selects the phrasing of the opener.
type Tone string

const (
	Neutral Tone = "Neutral"
	Warm    Tone = "Warm"
	Direct  Tone = "Direct"
)

// ParseTone is case-insensitive; unknown values fall back to Neutral.
func ParseTone(s string) Tone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warm":
		return Warm
	case "direct":
		return Direct
	default:
		return Neutral
	}
}

// Length selects how verbose the hook facts are. Pivots are only produced
// for Long scripts.
type Length string

const (
	Short Length = "30s"
	Long  Length = "60s"
)

// ParseLength accepts "30s"/"short" and "60s"/"long"; anything else is Short.
func ParseLength(s string) Length {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "60s", "60", "long":
		return Long
	default:
		return Short
	}
}

// Pivots are the prepared answers to the three common objections.
type Pivots struct {
	Price    string `json:"price"`
	Showings string `json:"showings"`
	Agent    string `json:"agent"`
}

// Script is a rendered call script.
type Script struct {
	Address  string          `json:"address"`
	Tone     Tone            `json:"tone"`
	Length   Length          `json:"length"`
	Opener   string          `json:"opener"`
	Hooks    []models.Hook   `json:"hooks"`
	Pivots   *Pivots         `json:"pivots,omitempty"`
	FactPack models.FactPack `json:"fact_pack"`
}

// Build renders the script for in. The same inputs always produce the same
// script.
func Build(in Inputs, tone Tone, length Length) Script {
	fp := BuildFactPack(in)

	s := Script{
		Address:  in.Subject.Address,
		Tone:     tone,
		Length:   length,
		Opener:   Opener(in.Subject, tone),
		Hooks:    SelectHooks(Library(fp, length)),
		FactPack: fp,
	}
	if length == Long {
		p := BuildPivots(in.Subject, fp)
		s.Pivots = &p
	}
	return s
}

// Opener returns the first line of the call for tone.
func Opener(subject models.SubjectProperty, tone Tone) string {
	street := subject.Street
	if street == "" {
		street, _, _ = strings.Cut(subject.Address, ",")
	}

	switch tone {
	case Direct:
		return fmt.Sprintf("I'm reaching out regarding %s. Now that the listing is off-market, are you still interested in finding a buyer for the right price?", street)
	case Warm:
		return fmt.Sprintf("I was just looking at your home on %s and noticed the listing agreement ended. It looks like a great property. Are you still hoping to get it sold?", street)
	default:
		return fmt.Sprintf("I'm calling about the property on %s. I saw the listing recently reached its end date and wanted to see if you still have plans to sell.", street)
	}
}

// BuildPivots interpolates the fact pack into the objection answers.
func BuildPivots(subject models.SubjectProperty, fp models.FactPack) Pivots {
	p := Pivots{
		Price: fmt.Sprintf("I recognize the final ask was %s, but with area homes selling at %.0f%% of list, it's worth reviewing if the digital positioning was reaching the right audience.",
			format.Money(subject.Ask()), fp.MarketListToSale),
		Showings: fmt.Sprintf("If you had activity but no offers, it often points to a specific friction point. With %d other options nearby, buyers are being very selective about condition and presentation.",
			fp.MarketInventory),
		Agent: "It's common to choose based on relationship. My goal is to show you what a different plan would look like in this market.",
	}
	if fp.HasAgent {
		p.Agent = fmt.Sprintf("It's common to choose based on relationship, but the data shows a %s day variance from the market speed. My goal is to show you how to bridge that gap.",
			formatDays(fp.AgentDOMDelta))
	}
	return p
}

// Text renders the script as copyable plain text.
func (s Script) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Address: %s\n\n", s.Address)
	fmt.Fprintf(&b, "Opener: %s\n\n", s.Opener)
	b.WriteString("Hooks:\n")
	for i, h := range s.Hooks {
		fmt.Fprintf(&b, "%d) %s\n", i+1, h.Fact)
		fmt.Fprintf(&b, "Q: %s\n\n", h.Question)
	}
	if s.Pivots != nil {
		b.WriteString("Pivots:\n")
		fmt.Fprintf(&b, "- If price: %s\n", s.Pivots.Price)
		fmt.Fprintf(&b, "- If no showings: %s\n", s.Pivots.Showings)
		fmt.Fprintf(&b, "- If agent: %s", s.Pivots.Agent)
	}
	return strings.TrimRight(b.String(), "\n")
}
