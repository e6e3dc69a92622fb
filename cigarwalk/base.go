package cigarwalk

// Channel indices for the five-channel mutation grid, in the order used
// throughout cov.Counts5.
const (
	ChanA = 0
	ChanC = 1
	ChanG = 2
	ChanT = 3
	ChanN = 4
)

// base2Chan maps an expanded (ASCII) read base to its mutation-grid
// channel; any base other than A/C/G/T (including ambiguity codes) is
// bucketed into the N channel.
var base2Chan = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = ChanN
	}
	t['a'], t['A'] = ChanA, ChanA
	t['c'], t['C'] = ChanC, ChanC
	t['g'], t['G'] = ChanG, ChanG
	t['t'], t['T'] = ChanT, ChanT
	return t
}()

// Channels decodes an expanded read-sequence slice into mutation-grid
// channel indices, one per base.
func Channels(seq []byte) []uint8 {
	out := make([]uint8, len(seq))
	for i, b := range seq {
		out[i] = base2Chan[b]
	}
	return out
}

// BaseChannel decodes a single reference base into its mutation-grid channel
// index, the same table Channels uses per-position.
func BaseChannel(b byte) uint8 { return base2Chan[b] }

// ChannelASCII is the inverse of the A/C/G/T/N channel indices, used when
// formatting the reference base for a mutation row.
var ChannelASCII = [5]byte{'A', 'C', 'G', 'T', 'N'}
