package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Set up Database", "set-up-database"},
		{"Fix bug #42 (urgent!)", "fix-bug-42-urgent"},
		{"---dashes---", "dashes"},
		{"MixedCASE Title", "mixedcase-title"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slug(tc.title))
	}
}

func TestSlugTruncatesAtWordBoundary(t *testing.T) {
	long := "implement the complete authentication and authorization subsystem for the api"
	slug := Slug(long)
	assert.LessOrEqual(t, len(slug), 50)
	assert.NotEqual(t, byte('-'), slug[len(slug)-1])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "001-set-up-database.md", Filename(1, "Set up Database"))
	assert.Equal(t, "042-deploy.md", Filename(42, "Deploy"))
	assert.Equal(t, "1234-deploy.md", Filename(1234, "Deploy"))
}
