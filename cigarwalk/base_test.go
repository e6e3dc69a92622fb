package cigarwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelsMapsLowerAndUpperCase(t *testing.T) {
	assert.Equal(t, []uint8{ChanA, ChanC, ChanG, ChanT, ChanN}, Channels([]byte("ACGTN")))
	assert.Equal(t, []uint8{ChanA, ChanC, ChanG, ChanT, ChanN}, Channels([]byte("acgtn")))
}

func TestChannelsBucketsAmbiguityCodesAsN(t *testing.T) {
	assert.Equal(t, []uint8{ChanN, ChanN}, Channels([]byte("RY")))
}

func TestBaseChannelMatchesChannels(t *testing.T) {
	for _, b := range []byte("ACGTN") {
		assert.Equal(t, Channels([]byte{b})[0], BaseChannel(b))
	}
}

func TestChannelASCIIIsInverseOfBaseChannel(t *testing.T) {
	for i, b := range ChannelASCII {
		assert.EqualValues(t, i, BaseChannel(b))
	}
}
