package languageutil

import (
	"combinaapi/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintfLocalizes(t *testing.T) {
	assert.Equal(t, "Daily limit of 2 suggestions reached.", Sprintf(models.EN, MsgQuotaExceeded, 2))
	assert.Equal(t, "Günlük 2 öneri limitine ulaştınız.", Sprintf(models.TR, MsgQuotaExceeded, 2))
	assert.Equal(t, Sprintf(models.EN, MsgEmptyWardrobe), Sprintf(models.Language("xx"), MsgEmptyWardrobe))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "English", DisplayName(models.EN))
	assert.Equal(t, "Turkish", DisplayName(models.TR))
}

func TestMatchAcceptLanguage(t *testing.T) {
	assert.Equal(t, models.TR, MatchAcceptLanguage("tr-TR,tr;q=0.9,en;q=0.8"))
	assert.Equal(t, models.EN, MatchAcceptLanguage("de-DE"))
	assert.Equal(t, models.EN, MatchAcceptLanguage(""))
}

func TestHumanizeLabel(t *testing.T) {
	assert.Equal(t, "Business Meeting", HumanizeLabel("business-meeting"))
}
