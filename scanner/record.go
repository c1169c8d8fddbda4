package scanner

import "time"

// Kind classifies a filesystem object encountered during a scan.
type Kind string

const (
	KindFile         Kind = "file"
	KindDir          Kind = "dir"
	KindSymlinkFile  Kind = "symlink-file"
	KindSymlinkDir   Kind = "symlink-dir"
	KindInaccessible Kind = "inaccessible"
)

// PathRecord is one metadata entry per filesystem object. It is intentionally
// typed; downstream consumers treat records as read-only.
type PathRecord struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Extension string    `json:"extension,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time,omitzero"`
	Times     FileTimes `json:"times,omitzero"`
	MimeType  string    `json:"mime_type,omitempty"`
	Depth     int       `json:"depth"`
	Error     string    `json:"error,omitempty"`
}

// IsFile reports whether the record describes a regular file with valid
// size and timestamp metadata.
func (r *PathRecord) IsFile() bool {
	return r.Kind == KindFile
}

// ScanResult owns the record sequence produced by one Collect call plus
// scan-level counters. Immutable once returned.
type ScanResult struct {
	Root           string       `json:"root"`
	ExcludeNames   []string     `json:"exclude_names"`
	Records        []PathRecord `json:"records"`
	TotalFiles     int          `json:"total_files"`
	TotalDirs      int          `json:"total_dirs"`
	TotalSymlinks  int          `json:"total_symlinks"`
	TotalSizeBytes int64        `json:"total_size_bytes"`
	ErrorCount     int          `json:"error_count"`
}

// Files returns the file-kind records in result order.
func (s *ScanResult) Files() []PathRecord {
	files := make([]PathRecord, 0, s.TotalFiles)
	for i := range s.Records {
		if s.Records[i].Kind == KindFile {
			files = append(files, s.Records[i])
		}
	}
	return files
}

// Errored returns the records that carry a diagnostic, i.e. inaccessible
// entries plus directories whose listing failed mid-scan.
func (s *ScanResult) Errored() []PathRecord {
	bad := make([]PathRecord, 0, s.ErrorCount)
	for i := range s.Records {
		if s.Records[i].Error != "" {
			bad = append(bad, s.Records[i])
		}
	}
	return bad
}
