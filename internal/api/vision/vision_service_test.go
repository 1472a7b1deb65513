package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travelica/travelica-backend/internal/types"
)

func TestMapLink(t *testing.T) {
	t.Run("fixed pattern", func(t *testing.T) {
		got := MapLink(21.0277332, 105.8522469, 15)
		assert.Equal(t, "https://maps.google.com/maps?z=15&t=m&q=loc:21.0277332+105.8522469", got)
	})

	t.Run("zoom is part of the link", func(t *testing.T) {
		got := MapLink(10.5, -20.25, 8)
		assert.Equal(t, "https://maps.google.com/maps?z=8&t=m&q=loc:10.5+-20.25", got)
	})
}

func TestValidImageName(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		want     bool
	}{
		{"jpg accepted", "photo.jpg", true},
		{"jpeg accepted", "photo.jpeg", true},
		{"png accepted", "photo.png", true},
		{"uppercase extension rejected", "photo.JPG", false},
		{"gif rejected", "photo.gif", false},
		{"no extension rejected", "photo", false},
		{"empty name rejected", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidImageName(tc.filename))
		})
	}
}

func TestValidAttachment(t *testing.T) {
	t.Run("missing attachment rejected", func(t *testing.T) {
		assert.False(t, ValidAttachment(nil))
	})

	t.Run("valid attachment accepted", func(t *testing.T) {
		assert.True(t, ValidAttachment(&types.Attachment{Filename: "menu.png", Data: []byte{1}}))
	})

	t.Run("badly named attachment rejected", func(t *testing.T) {
		assert.False(t, ValidAttachment(&types.Attachment{Filename: "menu.bmp"}))
	})
}
