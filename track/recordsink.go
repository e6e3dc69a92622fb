package track

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

func init() {
	recordiozstd.Init()
}

const chromListHeaderKey = "samvt-chromlist"

// chromRun is the on-disk representation of one compacted interval: a
// 16-byte fixed record (reference id, start, end, value), one run per
// recordio record.
type chromRun struct {
	RefID uint32
	Start uint32
	End   uint32
	Value float32
}

func marshalRun(scratch []byte, v interface{}) ([]byte, error) {
	buf := scratch
	if len(buf) < 16 {
		buf = make([]byte, 16)
	}
	buf = buf[:16]
	r := v.(*chromRun)
	binary.LittleEndian.PutUint32(buf[0:4], r.RefID)
	binary.LittleEndian.PutUint32(buf[4:8], r.Start)
	binary.LittleEndian.PutUint32(buf[8:12], r.End)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(r.Value))
	return buf, nil
}

func unmarshalRun(in []byte) (interface{}, error) {
	if len(in) != 16 {
		return nil, fmt.Errorf("track: corrupt run record (%d bytes)", len(in))
	}
	r := &chromRun{}
	r.RefID = binary.LittleEndian.Uint32(in[0:4])
	r.Start = binary.LittleEndian.Uint32(in[4:8])
	r.End = binary.LittleEndian.Uint32(in[8:12])
	r.Value = math.Float32frombits(binary.LittleEndian.Uint32(in[12:16]))
	return r, nil
}

// RecordWriter is the binary indexed track format's IntervalSink
// implementation: a zstd-compressed recordio stream of chromRun records,
// with the chromosome list stashed in the recordio header.
type RecordWriter struct {
	w        recordio.Writer
	refIndex map[string]uint32
	curRefID uint32
}

// NewRecordWriter wraps w in a recordio stream.
func NewRecordWriter(w io.Writer) *RecordWriter {
	rw := recordio.NewWriter(w, recordio.WriterOpts{
		Marshal:      marshalRun,
		Transformers: []string{"zstd 1"},
	})
	return &RecordWriter{w: rw, refIndex: map[string]uint32{}}
}

// AddChromList records the reference names and lengths in the stream
// header, once, before any interval is written.
func (w *RecordWriter) AddChromList(names []string, lengths []uint32) error {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + strconv.FormatUint(uint64(lengths[i]), 10)
		w.refIndex[name] = uint32(i)
	}
	w.w.AddHeader(chromListHeaderKey, strings.Join(parts, "\000"))
	w.w.AddHeader(recordio.KeyTrailer, true)
	return nil
}

// AddIntervals writes the first batch of runs for refName.
func (w *RecordWriter) AddIntervals(refName string, starts, ends []uint32, values []float32) error {
	refID, ok := w.refIndex[refName]
	if !ok {
		return fmt.Errorf("track: AddIntervals: unknown reference %q", refName)
	}
	w.curRefID = refID
	return w.appendRuns(starts, ends, values)
}

// AppendIntervals continues the reference most recently started by
// AddIntervals.
func (w *RecordWriter) AppendIntervals(starts, ends []uint32, values []float32) error {
	return w.appendRuns(starts, ends, values)
}

func (w *RecordWriter) appendRuns(starts, ends []uint32, values []float32) error {
	for i := range starts {
		w.w.Append(&chromRun{RefID: w.curRefID, Start: starts[i], End: ends[i], Value: values[i]})
	}
	return nil
}

// Close finalizes the stream, writing its trailer and footer.
func (w *RecordWriter) Close() error {
	w.w.SetTrailer([]byte(strconv.Itoa(len(w.refIndex))))
	return w.w.Finish()
}

// RecordReader reads a binary indexed track file back into runs, in file
// order, used by tests and by any future track-to-bedgraph conversion.
type RecordReader struct {
	scanner  recordio.Scanner
	refNames []string
}

// NewRecordReader opens a recordio stream written by RecordWriter.
func NewRecordReader(r io.ReadSeeker) (*RecordReader, error) {
	scanner := recordio.NewScanner(r, recordio.ScannerOpts{Unmarshal: unmarshalRun})
	var raw string
	found := false
	for _, kv := range scanner.Header() {
		if kv.Key == chromListHeaderKey {
			raw = kv.Value.(string)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("track: missing chrom list header")
	}
	parts := strings.Split(raw, "\000")
	names := make([]string, len(parts))
	for i, p := range parts {
		if idx := strings.LastIndexByte(p, ':'); idx >= 0 {
			names[i] = p[:idx]
		} else {
			names[i] = p
		}
	}
	return &RecordReader{scanner: scanner, refNames: names}, nil
}

// RefNames returns the chromosome list recorded by AddChromList.
func (r *RecordReader) RefNames() []string { return r.refNames }

// Next returns the next (reference name, run) pair, or io.EOF when
// exhausted.
func (r *RecordReader) Next() (string, Interval, error) {
	var run chromRun
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", Interval{}, err
		}
		return "", Interval{}, io.EOF
	}
	run = *r.scanner.Get().(*chromRun)
	return r.refNames[run.RefID], Interval{Start: run.Start, End: run.End, Value: run.Value}, nil
}
