package constants

import "time"

// Rating engine constants. The margin multiplier breakpoints live in the
// rating package; these cover initialization, convergence and gating.
const (
	StartRating = 1200.0
	StartRD     = 350.0
	RDFloor     = 50.0
	RDDecay     = 0.95
	KFactor     = 32.0
)

const (
	// MinRankedGames is the provisional threshold: players below it are
	// excluded from rating-first ranking output entirely.
	MinRankedGames = 9
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 1 // single-writer store
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	CrawlPageLimit   = 5
	CrawlRowsPerPage = 15
)

const (
	RatingHistoryLimit = 50
)
