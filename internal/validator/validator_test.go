package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantRule  string
	}{
		{
			name:  "valid lesson",
			input: &CreateLessonRequest{Title: "Intro", YoutubeID: "dQw4w9WgXcQ", ModuleID: "m1"},
		},
		{
			name:      "missing title",
			input:     &CreateLessonRequest{YoutubeID: "dQw4w9WgXcQ", ModuleID: "m1"},
			wantField: "title",
			wantRule:  "required",
		},
		{
			name:      "bad youtube id",
			input:     &CreateLessonRequest{Title: "Intro", YoutubeID: "not a video!", ModuleID: "m1"},
			wantField: "youtube_id",
			wantRule:  "youtube_id",
		},
		{
			name:      "blank note",
			input:     &CreateNoteRequest{Content: "   "},
			wantField: "content",
			wantRule:  "notblank",
		},
		{
			name:      "invalid email",
			input:     &LoginRequest{Email: "nope", Password: "x"},
			wantField: "email",
			wantRule:  "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var ve ValidationErrors
			require.True(t, errors.As(err, &ve))
			require.NotEmpty(t, ve)
			assert.Equal(t, tt.wantField, ve[0].Field)
			assert.Equal(t, tt.wantRule, ve[0].Rule)
		})
	}
}
