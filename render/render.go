package render

import (
	"github.com/google/uuid"
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/util"
	"go.uber.org/zap"
)

// Timeline maps ticks to measures. LastTickInMeasure is exclusive: it is the
// first tick of the following measure.
type Timeline interface {
	MeasureAtTick(tick int) int
	FirstTickInMeasure(id int) int
	LastTickInMeasure(id int) int
	BeatLengthInTicks() int
	TimeSigNumerator(id int) int
	TimeSigDenominator(id int) int
	MeasureCount() int
}

type Track interface {
	NoteCount() int
	Note(i int) model.RawNote
}

type Options struct {
	StemPivot               int
	CheckRepetitions        bool
	RepetitionMinimalLength int
	LineWidth               float64
}

func DefaultOptions() Options {
	return Options{
		StemPivot:               constants.DefaultMiddleC + constants.GClefPivotOffset,
		CheckRepetitions:        true,
		RepetitionMinimalLength: constants.DefaultRepetition,
		LineWidth:               constants.MaxLineWidth,
	}
}

// Context holds everything one layout pass reads. It is owned by the caller
// and must not be shared between concurrent passes.
type Context struct {
	ID       uuid.UUID
	Timeline Timeline
	Options  Options
	Log      *zap.Logger
}

func NewContext(tl Timeline, opts Options, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	return &Context{
		ID:       id,
		Timeline: tl,
		Options:  opts,
		Log:      log.With(zap.String("pass", id.String())),
	}
}

// Assert reports a broken invariant. See util.Assert.
func (c *Context) Assert(cond bool, msg string, fields ...zap.Field) bool {
	return util.Assert(c.Log, cond, msg, fields...)
}

func (c *Context) BeatLength() int {
	return c.Timeline.BeatLengthInTicks()
}

func (c *Context) AboutEqualTick(a, b int) bool {
	return util.Abs(a-b) < c.BeatLength()/constants.AboutEqualTickRatio
}

func (c *Context) MeasureLength(id int) int {
	return c.Timeline.LastTickInMeasure(id) - c.Timeline.FirstTickInMeasure(id)
}

// RelativeLength expresses ticks as a fraction of a whole note.
func (c *Context) RelativeLength(ticks int) float64 {
	return float64(ticks) / float64(c.BeatLength()*4)
}
