package languageutil

import (
	"combinaapi/models"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
)

var TitleCaser = cases.Title(language.English)

// Message keys for user-facing texts.
const (
	MsgQuotaExceeded      = "Daily limit of %d suggestions reached."
	MsgInfeasibleWardrobe = "Your wardrobe is missing items for this occasion. Add one of: %s"
	MsgEmptyWardrobe      = "Your wardrobe is empty. Add some items first."
	MsgNoDistinctOutfit   = "We couldn't find a new combination for this occasion. Try again later or add more items."
	MsgServiceUnavailable = "Styling service is temporarily unavailable. Please try again."
	MsgInternalError      = "Something went wrong. Please try again."
	MsgHistoryNotSaved    = "Your suggestion is ready, but we couldn't save it to your history."
	MsgUserNotFound       = "User profile not found."
)

var supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(supported)

func init() {
	tr := language.Turkish
	message.SetString(tr, MsgQuotaExceeded, "Günlük %d öneri limitine ulaştınız.")
	message.SetString(tr, MsgInfeasibleWardrobe, "Gardırobunuzda bu etkinlik için gerekli parçalar eksik. Şunlardan birini ekleyin: %s")
	message.SetString(tr, MsgEmptyWardrobe, "Gardırobunuz boş. Önce birkaç parça ekleyin.")
	message.SetString(tr, MsgNoDistinctOutfit, "Bu etkinlik için yeni bir kombin bulamadık. Daha sonra tekrar deneyin veya yeni parçalar ekleyin.")
	message.SetString(tr, MsgServiceUnavailable, "Stil servisi geçici olarak kullanılamıyor. Lütfen tekrar deneyin.")
	message.SetString(tr, MsgInternalError, "Bir şeyler ters gitti. Lütfen tekrar deneyin.")
	message.SetString(tr, MsgHistoryNotSaved, "Öneriniz hazır, ancak geçmişinize kaydedemedik.")
	message.SetString(tr, MsgUserNotFound, "Kullanıcı profili bulunamadı.")
}

func tag(lang models.Language) language.Tag {
	if lang.OrDefault() == models.TR {
		return language.Turkish
	}
	return language.English
}

// Sprintf renders a message key in the given language, falling back to English.
func Sprintf(lang models.Language, key string, args ...interface{}) string {
	return message.NewPrinter(tag(lang)).Sprintf(key, args...)
}

// DisplayName is the English name of the language, used to instruct the model.
func DisplayName(lang models.Language) string {
	return display.English.Languages().Name(tag(lang))
}

// MatchAcceptLanguage picks a supported language from an Accept-Language header.
func MatchAcceptLanguage(header string) models.Language {
	if strings.TrimSpace(header) == "" {
		return models.EN
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return models.EN
	}
	_, index, _ := matcher.Match(tags...)
	base, _ := supported[index].Base()
	return models.Language(base.String())
}

// HumanizeLabel turns "business-meeting" into "Business Meeting".
func HumanizeLabel(label string) string {
	return TitleCaser.String(strings.ReplaceAll(label, "-", " "))
}
