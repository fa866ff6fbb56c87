package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidbrief/internal/domain/models"
)

func TestResolveVideoID_SupportedShapes(t *testing.T) {
	const want = "dQw4w9WgXcQ"

	inputs := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=shared&v=dQw4w9WgXcQ",
		"http://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc123",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
	}

	for _, input := range inputs {
		got, err := ResolveVideoID(input)
		assert.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestResolveVideoID_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"not a url",
		"https://vimeo.com/12345678",
		"https://www.youtube.com/watch?v=tooshort",
		"https://www.youtube.com/playlist?list=PL0123456789abcdef",
		"dQw4w9WgXc",             // 10 chars
		"dQw4w9WgXcQQ literally", // trailing garbage on bare ID
	}

	for _, input := range inputs {
		_, err := ResolveVideoID(input)
		assert.ErrorIs(t, err, models.ErrInvalidURL, "input %q", input)
	}
}
