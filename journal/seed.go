package journal

import (
	"context"

	"rifflingua-go/logcolors"

	log "github.com/sirupsen/logrus"
)

func intPtr(v int) *int          { return &v }
func stringPtr(v string) *string { return &v }

// SampleEntries are inserted by SeedSampleData for first-time users.
var SampleEntries = []Entry{
	{
		Date:     "2025-09-12",
		Title:    "Morning outing to Ocean Beach",
		Content:  "I dreamed about surfing last night. Whenever that happens, I know I'm going to have a great day in the water. Sarah",
		Rating:   intPtr(5),
		Mood:     stringPtr("\U0001F60A"),
		Steps:    intPtr(1250),
		Location: stringPtr("Ocean Beach"),
	},
	{
		Date:     "2025-09-11",
		Title:    "Afternoon hike, Mount Diablo",
		Content:  "What a day! She and I were in town and decided to take a hike. The views were amazing and the weather was perfect.",
		Rating:   intPtr(5),
		Mood:     stringPtr("\U0001F31F"),
		Steps:    intPtr(8234),
		Location: stringPtr("Mt. Diablo State Park"),
	},
	{
		Date:     "2025-09-10",
		Title:    "Coffee with friends",
		Content:  "Met up with old friends at the local cafe. We talked for hours about everything and nothing. It felt great to reconnect.",
		Rating:   intPtr(4),
		Mood:     stringPtr("☕"),
		Steps:    intPtr(3200),
		Location: stringPtr("Downtown Cafe"),
	},
}

// SeedSampleData inserts SampleEntries when the journal is empty. It
// reports whether anything was inserted.
func (s *Store) SeedSampleData(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Infof("%s Journal already has %d entries, skipping seed", logcolors.LogJournal, n)
		return false, nil
	}

	for _, entry := range SampleEntries {
		if _, err := s.Create(ctx, entry); err != nil {
			return false, err
		}
	}
	log.Infof("%s Seeded %d sample entries", logcolors.LogJournal, len(SampleEntries))
	return true, nil
}
