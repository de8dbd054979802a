package config

const (
	// MaxTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// MaxFilenameLength is the maximum length for uploaded filenames.
	// Same limit as titles; longer names get rejected at validation.
	MaxFilenameLength = 255

	// MaxCategoryPathLength is the maximum length for full category paths.
	// Set to 500 to allow paths like "A/B/C/D/E" where each segment can
	// be up to 100 characters. Longer paths indicate overly deep
	// hierarchies (anti-pattern).
	MaxCategoryPathLength = 500
)
