package search

import (
	"errors"

	"rifflingua-go/services/providers"
	"rifflingua-go/services/translation"
)

type messageKey int

const (
	msgEmptyQuery messageKey = iota
	msgQuotaExhausted
	msgLyricsNotFound
	msgLyricsUnavailable
	msgTranslationDisabled
	msgTranslationFailed
)

var messages = map[string]map[messageKey]string{
	"en": {
		msgEmptyQuery:          "Please enter both an artist and a song title.",
		msgQuotaExhausted:      "You have used all of today's searches. Saved songs can still be opened for free.",
		msgLyricsNotFound:      "Lyrics for this song were not found.",
		msgLyricsUnavailable:   "Lyrics are temporarily unavailable. Please try again later.",
		msgTranslationDisabled: "Translation is turned off.",
		msgTranslationFailed:   "Translation is temporarily unavailable. Please try again later.",
	},
	"tr": {
		msgEmptyQuery:          "Lütfen sanatçı ve şarkı adını girin.",
		msgQuotaExhausted:      "Bugünkü arama hakkınız doldu. Kayıtlı şarkıları ücretsiz açabilirsiniz.",
		msgLyricsNotFound:      "Bu şarkının sözleri bulunamadı.",
		msgLyricsUnavailable:   "Şarkı sözleri şu anda alınamıyor. Lütfen daha sonra tekrar deneyin.",
		msgTranslationDisabled: "Çeviri kapalı.",
		msgTranslationFailed:   "Çeviri şu anda yapılamıyor. Lütfen daha sonra tekrar deneyin.",
	},
}

// UserMessage turns an error from this service, the lyrics chain or the
// translation engine into a message for the user. Unknown languages fall
// back to English. A nil error yields "".
func UserMessage(err error, lang string) string {
	if err == nil {
		return ""
	}
	table, ok := messages[lang]
	if !ok {
		table = messages["en"]
	}

	var te *translation.TranslationError
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return table[msgEmptyQuery]
	case errors.Is(err, ErrQuotaExhausted):
		return table[msgQuotaExhausted]
	case providers.IsNotFound(err):
		return table[msgLyricsNotFound]
	case errors.Is(err, translation.ErrTranslationDisabled):
		return table[msgTranslationDisabled]
	case errors.As(err, &te):
		return table[msgTranslationFailed]
	default:
		return table[msgLyricsUnavailable]
	}
}
