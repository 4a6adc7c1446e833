package quiz

import (
	"github.com/abhisek/drivequiz/internal/media"
)

// mediaReadyMsg carries the resolved media of the question shown at Seq.
// Results for a question that is no longer displayed are dropped.
type mediaReadyMsg struct {
	Seq   int
	Media *media.Media
}
