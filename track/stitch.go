package track

// IntervalSink is the external collaborator that receives compacted runs in
// final track-file order. It matches a BigWig-style writer's shape
// (AddChromList to declare every reference once, up front, AddIntervals
// for the first batch of a
// reference, AppendIntervals for subsequent batches), without committing to
// BigWig itself.
type IntervalSink interface {
	AddChromList(names []string, lengths []uint32) error
	AddIntervals(refName string, starts, ends []uint32, values []float32) error
	AppendIntervals(starts, ends []uint32, values []float32) error
	Close() error
}

// Stitcher carries the "open suffix" of one window's compacted runs into
// the next window, merging a trailing run with the following window's
// leading run when they're adjacent and of equal value, so a single
// coverage run is never split into multiple intervals just because it
// happened to be compacted in separate windows.
type Stitcher struct {
	sink IntervalSink

	refName string
	init    bool // AddIntervals has fired for the current reference
	hasLast bool
	last    Interval
}

// NewStitcher creates a Stitcher that writes to sink.
func NewStitcher(sink IntervalSink) *Stitcher {
	return &Stitcher{sink: sink}
}

// StartRef begins a new reference, flushing any run still pending from the
// previous one. It must be called (in reference order) before the first
// Feed for that reference.
func (s *Stitcher) StartRef(name string) error {
	if err := s.flushPending(); err != nil {
		return err
	}
	s.refName = name
	s.init = false
	s.hasLast = false
	return nil
}

func (s *Stitcher) flushPending() error {
	if !s.hasLast {
		return nil
	}
	last := s.last
	s.hasLast = false
	return s.emit([]Interval{last})
}

// Feed delivers the next window's compacted runs, in increasing-position
// order, for the reference named by the most recent StartRef. lastWindow
// indicates this is the final window for that reference, so any run still
// held back must be flushed rather than carried forward.
func (s *Stitcher) Feed(runs []Interval, lastWindow bool) error {
	if len(runs) == 0 {
		return nil
	}
	if s.hasLast {
		if s.last.Value == runs[0].Value && s.last.End == runs[0].Start {
			runs[0].Start = s.last.Start
		} else {
			pending := s.last
			if err := s.emit([]Interval{pending}); err != nil {
				return err
			}
		}
		s.hasLast = false
	}
	if !lastWindow {
		s.last = runs[len(runs)-1]
		s.hasLast = true
		runs = runs[:len(runs)-1]
	}
	if len(runs) == 0 {
		return nil
	}
	return s.emit(runs)
}

// Close flushes any run still pending for the last reference fed and closes
// the underlying sink.
func (s *Stitcher) Close() error {
	if err := s.flushPending(); err != nil {
		return err
	}
	return s.sink.Close()
}

func (s *Stitcher) emit(runs []Interval) error {
	starts := make([]uint32, len(runs))
	ends := make([]uint32, len(runs))
	values := make([]float32, len(runs))
	for i, r := range runs {
		starts[i], ends[i], values[i] = r.Start, r.End, r.Value
	}
	if !s.init {
		s.init = true
		return s.sink.AddIntervals(s.refName, starts, ends, values)
	}
	return s.sink.AppendIntervals(starts, ends, values)
}
