package cigarwalk

import "github.com/biogo/hts/sam"

// LibraryType is the strandedness of the sequencing library.
type LibraryType int

const (
	LibraryUnstranded LibraryType = iota
	LibraryFirstStrand
	LibrarySecondStrand
)

// ParseLibraryType parses the --library-type flag value used by both
// subcommands.
func ParseLibraryType(s string) (LibraryType, bool) {
	switch s {
	case "fr-firststrand":
		return LibraryFirstStrand, true
	case "fr-secondstrand":
		return LibrarySecondStrand, true
	case "fr-unstranded", "unstranded":
		return LibraryUnstranded, true
	default:
		return 0, false
	}
}

// Strand is the genomic strand requested for a coverage run: all reads, or
// only reads whose mate-aware orientation resolves to forward/reverse under
// the library type.
type Strand int

const (
	StrandAll Strand = iota
	StrandForward
	StrandReverse
)

// ParseStrand parses the --strand flag value used by `samvt coverage`.
func ParseStrand(s string) (Strand, bool) {
	switch s {
	case "", "all":
		return StrandAll, true
	case "forward":
		return StrandForward, true
	case "reverse":
		return StrandReverse, true
	default:
		return 0, false
	}
}

// selectMode is the record-skip policy precomputed once from
// (libraryType, strand).
type selectMode int

const (
	selectAll selectMode = iota
	selectFirstForward
	selectFirstReverse
)

// CoverageSelect precomputes the select mode for a (library type, strand)
// pair, once, before the read loop starts.
func CoverageSelect(lib LibraryType, strand Strand) selectMode {
	if (lib == LibraryFirstStrand && strand == StrandForward) || (lib == LibrarySecondStrand && strand == StrandReverse) {
		return selectFirstReverse
	}
	if (lib == LibraryFirstStrand && strand == StrandReverse) || (lib == LibrarySecondStrand && strand == StrandForward) {
		return selectFirstForward
	}
	return selectAll
}

// Included reports whether rec should contribute to coverage under the
// given select mode: paired reads are judged by which mate and orientation
// they are, unpaired reads by orientation alone.
func Included(rec *sam.Record, mode selectMode) bool {
	if mode == selectAll {
		return true
	}
	flags := rec.Flags
	if flags&sam.Paired != 0 {
		switch mode {
		case selectFirstReverse:
			if (flags&sam.Read1 != 0 && flags&sam.Reverse == 0) || (flags&sam.Read2 != 0 && flags&sam.Reverse != 0) {
				return false
			}
		case selectFirstForward:
			if (flags&sam.Read1 != 0 && flags&sam.Reverse != 0) || (flags&sam.Read2 != 0 && flags&sam.Reverse == 0) {
				return false
			}
		}
		return true
	}
	if mode == selectFirstReverse && flags&sam.Reverse == 0 {
		return false
	}
	if mode == selectFirstForward && flags&sam.Reverse != 0 {
		return false
	}
	return true
}

// MutationStrand derives the output strand character for a record under
// the given library type. This is a distinct mapping from
// CoverageSelect/Included: it labels every read with a strand rather than
// deciding whether to skip it.
func MutationStrand(rec *sam.Record, lib LibraryType) byte {
	flags := rec.Flags
	paired := flags&sam.Paired != 0
	isFirst := flags&sam.Read1 != 0
	isSecond := flags&sam.Read2 != 0
	isReverse := flags&sam.Reverse != 0

	switch lib {
	case LibraryFirstStrand:
		if paired {
			if (isFirst && isReverse) || (isSecond && !isReverse) {
				return '+'
			}
			return '-'
		}
		if isReverse {
			return '+'
		}
		return '-'
	case LibrarySecondStrand:
		if paired {
			if (isFirst && !isReverse) || (isSecond && isReverse) {
				return '+'
			}
			return '-'
		}
		if isReverse {
			return '-'
		}
		return '+'
	default:
		return '.'
	}
}
