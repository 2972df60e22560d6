package model_test

import (
	"testing"

	"linkboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBoardURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"simple slug", "default", "default", false},
		{"upper case folded", "  My-Board ", "my-board", false},
		{"digits allowed", "board-26", "board-26", false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"leading hyphen", "-board", "", true},
		{"trailing hyphen", "board-", "", true},
		{"double hyphen", "my--board", "", true},
		{"inner space", "my board", "", true},
		{"non ascii", "bücher", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.NormalizeBoardURL(tt.raw)
			if tt.wantErr {
				assert.EqualError(t, err, "board_url must use lowercase letters, numbers, and single hyphens")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckNoDuplicateCardIDs(t *testing.T) {
	assert.NoError(t, model.CheckNoDuplicateCardIDs(nil))
	assert.NoError(t, model.CheckNoDuplicateCardIDs([]model.Card{
		{ID: "github"},
		{ID: "linkedin"},
	}))

	err := model.CheckNoDuplicateCardIDs([]model.Card{
		{ID: "github"},
		{ID: "blog"},
		{ID: "github"},
		{ID: "blog"},
	})
	assert.EqualError(t, err, "cards contain duplicate id: github")
}
