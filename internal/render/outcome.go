package render

import (
	"fmt"
	"strings"

	"github.com/lox/derby/internal/race"
)

// FormatOutcome describes a resolved race for humans.
func FormatOutcome(o race.Outcome) string {
	switch o.Kind {
	case race.SoleWinner:
		return fmt.Sprintf("%s wins!", o.Winners[0].Name)
	case race.DeadHeat:
		return "It's a tie between:\n" + strings.Join(o.WinnerNames(), "\n")
	case race.PhotoFinish:
		return fmt.Sprintf("It's a photo finish, but: %s wins!", o.Winners[0].Name)
	default:
		return ""
	}
}
