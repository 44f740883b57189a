package trello

import (
	"regexp"
	"strings"

	"github.com/vytor/trelloflash/internal/models"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// BoardColor picks the display color for a board. Boards with a background
// image, or whose color is not #rrggbb, get the standard Trello blue.
func BoardColor(backgroundColor, backgroundImage string) string {
	if backgroundImage != "" && backgroundImage != "null" {
		return models.StandardBoardColor
	}
	if !hexColorRe.MatchString(backgroundColor) {
		return models.StandardBoardColor
	}
	return strings.ToLower(backgroundColor)
}

func toCards(listID string, in []cardResp) []models.Card {
	cards := make([]models.Card, 0, len(in))
	for _, c := range in {
		owner := c.IDList
		if owner == "" {
			owner = listID
		}
		cards = append(cards, models.Card{
			ID:       c.ID,
			ListID:   owner,
			Question: c.Name,
			Answer:   c.Desc,
		})
	}
	return cards
}

func toCardList(l listResp, boardID string) models.CardList {
	if l.IDBoard != "" {
		boardID = l.IDBoard
	}
	return models.CardList{
		ID:      l.ID,
		BoardID: boardID,
		Name:    l.Name,
		Cards:   toCards(l.ID, l.Cards),
	}
}

func unauthorizedBody(body string) bool {
	b := strings.ToLower(body)
	return strings.Contains(b, "invalid key") ||
		strings.Contains(b, "invalid token") ||
		strings.Contains(b, "unauthorized")
}
