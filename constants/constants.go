package constants

import "os"

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}
	return fallback
}

func GetAddr() string {
	return getEnv("ENGRAVE_ADDR", ":8080")
}

func GetLogLevel() string {
	return getEnv("ENGRAVE_LOG_LEVEL", "info")
}

// GetMetadataEndpoint returns "" when no metadata store is configured.
func GetMetadataEndpoint() string {
	return os.Getenv("ENGRAVE_METADATA_ENDPOINT")
}

func GetMetadataTable() string {
	return getEnv("ENGRAVE_METADATA_TABLE", "engrave-metadata")
}

func GetMetadataRegion() string {
	return getEnv("ENGRAVE_METADATA_REGION", "localhost")
}

// durations, as a fraction of a whole note
const (
	// wide enough for humanized MIDI; overlapping values go to the nearest
	DurationTolerance   = 1.0 / 64.0
	ShortestDuration    = 1.0 / 32.0
	ShortestSilence     = 1.0 / 16.0
	AboutEqualTickRatio = 16
)

// stems, in levels
const (
	StemHeight        = 5.2
	MinStemHeight     = 4.5
	MaxBeamSlope      = 3
	ChordStemBias     = 2
	DefaultMiddleC    = 39
	GClefPivotOffset  = -5
	FClefPivotOffset  = 6
	DefaultRepetition = 2
)

// guards against runaway splitting
const (
	MaxSplitIterations = 64
	MaxBeamIterations  = 256
)

// widths, in print units
const (
	HeadRadius             = 36
	NoteHeadMargin         = 44
	MaxAccidentalSize      = 80
	RectangularSilenceSize = 80
	SilenceLeftMargin      = 40
	SilenceSize            = 90
	DotWidth               = 40
	SideMarginWidth        = 60
	ExtraWidthFactor       = 0.6
	TimeSignatureWidth     = 75
	EmptyMeasureWidth      = 300
	MinMeasureWidth        = 300
	RepeatedMeasureWidth   = 300
	MaxLineWidth           = 6000
	LineHeaderWidth        = 250
	MeasureMargin          = 50
)
