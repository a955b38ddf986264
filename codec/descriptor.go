package codec

import (
	"strings"
)

// Adjective selects the article a codec reference starts with.
type Adjective int

const (
	A Adjective = iota
	The
)

func (a Adjective) String() string {
	if a == The {
		return "the"
	}
	return "a"
}

// Descriptor is the self-description of a codec, consumed by documentation
// tooling.
type Descriptor interface {
	// Title is the heading of a dedicated section, if any.
	Title() string
	Reference(adjective Adjective) string
	Summary() string
	RequiresDedicatedSection() bool
}

type descriptor struct {
	noun    string
	summary string
}

func (d descriptor) Title() string {
	return ""
}

func (d descriptor) Reference(adjective Adjective) string {
	article := adjective.String()
	if adjective == A && strings.ContainsAny(d.noun[:1], "aeiou") {
		article = "an"
	}
	return article + " " + d.noun
}

func (d descriptor) Summary() string {
	return d.summary
}

func (d descriptor) RequiresDedicatedSection() bool {
	return false
}
