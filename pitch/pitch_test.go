package pitch

import (
	"testing"

	"github.com/jsphweid/engrave/model"
	"github.com/stretchr/testify/assert"
)

func TestWhiteKeys(t *testing.T) {
	c := NewConverter(false)

	assert := assert.New(t)
	level, sign := c.Level(60)
	assert.Equal(c.MiddleC, level)
	assert.Equal(model.PitchSignNone, sign)

	level, _ = c.Level(62)
	assert.Equal(c.MiddleC-1, level)
	level, _ = c.Level(72)
	assert.Equal(c.MiddleC-7, level)
	level, _ = c.Level(59)
	assert.Equal(c.MiddleC+1, level)
}

func TestBlackKeys(t *testing.T) {
	assert := assert.New(t)

	level, sign := NewConverter(false).Level(61)
	assert.Equal(NewConverter(false).MiddleC, level)
	assert.Equal(model.Sharp, sign)

	level, sign = NewConverter(true).Level(61)
	assert.Equal(NewConverter(true).MiddleC-1, level)
	assert.Equal(model.Flat, sign)
}

func TestKeyRoundTrip(t *testing.T) {
	assert := assert.New(t)
	for _, flats := range []bool{false, true} {
		c := NewConverter(flats)
		for key := 12; key < 120; key++ {
			level, sign := c.Level(key)
			assert.Equal(key, c.Key(level, sign))
		}
	}
}

func TestPivots(t *testing.T) {
	c := NewConverter(false)

	assert := assert.New(t)
	a4, _ := c.Level(69)
	assert.Equal(a4, c.GClefPivot())
	d3, _ := c.Level(50)
	assert.Equal(d3, c.FClefPivot())
}
