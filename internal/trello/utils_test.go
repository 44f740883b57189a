package trello

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/trelloflash/internal/models"
)

func TestBoardColor(t *testing.T) {
	tests := []struct {
		name  string
		color string
		image string
		want  string
	}{
		{"hex color", "#519839", "", "#519839"},
		{"upper case is lowered", "#B04632", "", "#b04632"},
		{"background image wins", "#519839", "https://trello.com/bg.jpg", models.StandardBoardColor},
		{"null image string", "#519839", "null", "#519839"},
		{"named color", "green", "", models.StandardBoardColor},
		{"short hex", "#fff", "", models.StandardBoardColor},
		{"empty", "", "", models.StandardBoardColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BoardColor(tt.color, tt.image))
		})
	}
}

func TestUnauthorizedBody(t *testing.T) {
	assert.True(t, unauthorizedBody("invalid token"))
	assert.True(t, unauthorizedBody("Invalid Key"))
	assert.True(t, unauthorizedBody("unauthorized card permission requested"))
	assert.False(t, unauthorizedBody("invalid value for idList"))
}

func TestToCardList_KeepsCardOwner(t *testing.T) {
	l := toCardList(listResp{
		ID:   "l1",
		Name: "Deck",
		Cards: []cardResp{
			{ID: "c1", Name: "q1", Desc: "a1"},
			{ID: "c2", Name: "q2", Desc: "a2", IDList: "l9"},
		},
	}, "b1")

	assert.Equal(t, "b1", l.BoardID)
	assert.Equal(t, "l1", l.Cards[0].ListID)
	assert.Equal(t, "l9", l.Cards[1].ListID)
	assert.Equal(t, "c2", l.Cards[1].ID)
}
