package timelog

import (
	"fmt"
	"strings"
)

// Discipline is the category of work an activity is booked against.
type Discipline string

const (
	Development Discipline = "DEVELOPMENT"
	Design      Discipline = "DESIGN"
	Test        Discipline = "TEST"
	Management  Discipline = "MANAGEMENT"
)

// Disciplines lists every discipline in declaration order.
var Disciplines = []Discipline{Development, Design, Test, Management}

func (d Discipline) String() string { return string(d) }

// Valid reports whether d is one of the declared disciplines.
func (d Discipline) Valid() bool {
	for _, v := range Disciplines {
		if d == v {
			return true
		}
	}
	return false
}

// ParseDiscipline matches s against the discipline names, ignoring case.
func ParseDiscipline(s string) (Discipline, error) {
	d := Discipline(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDiscipline, s)
	}
	return d, nil
}
