package models

// MediaItem is the normalized view of one library entry, joined across the
// media server and the library managers. Items are rebuilt from scratch on
// every snapshot pass; nothing here is persisted.
type MediaItem struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Type  MediaType `json:"type"`

	// Size is gigabytes on disk; 0 when unknown.
	Size float64 `json:"size"`

	// LastWatched is an ISO date (YYYY-MM-DD); empty means never watched or
	// unknown.
	LastWatched string `json:"lastWatched,omitempty"`
	WatchCount  int    `json:"watchCount"`

	Status Status `json:"status"`
	Rule   Rule   `json:"rule"`
	Reason string `json:"reason,omitempty"`

	// StreamingServices lists the user's preferred providers the title is
	// currently available on.
	StreamingServices []string `json:"streamingServices"`

	FilePath string `json:"filePath,omitempty"`

	// RootFolderPath is the library-manager-reported root folder. Empty when
	// the item exists in the media server but no manager tracks it.
	RootFolderPath string `json:"rootFolderPath,omitempty"`

	// TV fields
	Seasons  int `json:"seasons,omitempty"`
	Episodes int `json:"episodes,omitempty"`
	SonarrID int `json:"sonarrId,omitempty"`

	// Movie fields
	Year     int `json:"year,omitempty"`
	RadarrID int `json:"radarrId,omitempty"`
}

// StreamingCard is a dashboard highlight for an item with any streaming
// availability at all, kept separate from the classification pass.
type StreamingCard struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      MediaType `json:"type"`
	Size      float64   `json:"size"`
	Providers []string  `json:"providers"`
}

// StorageInfo describes one filesystem view in gigabytes.
type StorageInfo struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Available float64 `json:"available"`
}

// LibraryStats are the dashboard summary counters.
type LibraryStats struct {
	TV          int     `json:"tv"`
	TVSize      float64 `json:"tv_size"`
	TVEpisodes  int     `json:"tv_episodes"`
	Movies      int     `json:"movies"`
	MoviesSize  float64 `json:"movies_size"`
	OnStreaming int     `json:"onStreaming"`
}

// RecommendedActions carries the dashboard's suggestion lists.
type RecommendedActions struct {
	EndedShows      []MediaItem `json:"endedShows"`
	StreamingMovies []MediaItem `json:"streamingMovies"`
}

// Dashboard is the single pre-computed aggregate published to the cache at
// the end of a sync pass.
type Dashboard struct {
	StorageData         StorageInfo        `json:"storageData"`
	ArchiveData         StorageInfo        `json:"archiveData"`
	PotentialSavings    float64            `json:"potentialSavings"`
	Candidates          []MediaItem        `json:"candidates"`
	LargeMovies         []MediaItem        `json:"largeMovies"`
	StreamingHighlights []StreamingCard    `json:"streamingHighlights"`
	LibraryStats        LibraryStats       `json:"libraryStats"`
	RecommendedActions  RecommendedActions `json:"recommendedActions"`
}
