package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/trelloflash/internal/models"
)

func TestCard_EqualByID(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Card
		want bool
	}{
		{"same id, edited text", models.Card{ID: "c1", Question: "old?", Answer: "x"}, models.Card{ID: "c1", Question: "new?", Answer: "y"}, true},
		{"same id, moved list", models.Card{ID: "c1", ListID: "l1"}, models.Card{ID: "c1", ListID: "l2"}, true},
		{"same text, other id", models.Card{ID: "c1", Question: "q"}, models.Card{ID: "c2", Question: "q"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestCardList_EqualByID(t *testing.T) {
	full := models.CardList{ID: "l1", Name: "Verbs", Cards: []models.Card{{ID: "c1"}, {ID: "c2"}}}

	assert.True(t, full.Equal(models.CardList{ID: "l1"}))
	assert.True(t, full.Equal(models.CardList{ID: "l1", Name: "Renamed", BoardID: "b9"}))
	assert.False(t, full.Equal(models.CardList{ID: "l2", Name: "Verbs", Cards: full.Cards}))
}

func TestBoard_EqualByID(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Board
		want bool
	}{
		{"same id, new color", models.Board{ID: "b1", Name: "Spanish", Color: "#00ff00"}, models.Board{ID: "b1", Name: "Spanish", Color: models.StandardBoardColor}, true},
		{"same id, renamed", models.Board{ID: "b1", Name: "Spanish"}, models.Board{ID: "b1", Name: "Español"}, true},
		{"same name, other id", models.Board{ID: "b1", Name: "Work"}, models.Board{ID: "b2", Name: "Work"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}
