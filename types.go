package main

import (
	"rifflingua-go/catalog"
	"rifflingua-go/services/search"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target,omitempty"`
	Source string `json:"source,omitempty"`
}

// TranslateResponse is returned by POST /translate.
type TranslateResponse struct {
	Translation string `json:"translation"`
	Target      string `json:"target"`
	Source      string `json:"source"`
}

// TodayLyricsResponse pairs the song of the day with its lyrics.
type TodayLyricsResponse struct {
	Song catalog.Song `json:"song"`
	*search.Result
}

// SongsResponse lists saved songs.
type SongsResponse struct {
	Count int         `json:"count"`
	Songs interface{} `json:"songs"`
}
