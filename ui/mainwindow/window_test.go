package mainwindow

import (
	"testing"

	"ledger-ink/internal/selection"

	"github.com/stretchr/testify/assert"
)

func TestCommandLabel(t *testing.T) {
	cases := map[selection.CommandName]string{
		selection.Cut:             "Cut",
		selection.SnapToShape:     "Snap to shape",
		selection.RecognizeRegion: "Recognize region",
		selection.InsertSpace:     "Insert space",
	}
	for name, want := range cases {
		assert.Equal(t, want, commandLabel(string(name)))
	}
}
