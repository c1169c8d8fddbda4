package scanner

import (
	"time"

	"github.com/djherbis/times"
)

// FileTimes carries the platform-dependent timestamps beyond mtime.
type FileTimes struct {
	AccessTime   string `json:"access_time,omitempty"`
	ChangeTime   string `json:"change_time,omitempty"`
	CreationTime string `json:"creation_time,omitempty"`
}

func fileTimes(path string) (FileTimes, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return FileTimes{}, err
	}
	result := FileTimes{
		AccessTime: ts.AccessTime().Format(time.RFC3339),
	}
	if ts.HasChangeTime() {
		result.ChangeTime = ts.ChangeTime().Format(time.RFC3339)
	}
	if ts.HasBirthTime() {
		result.CreationTime = ts.BirthTime().Format(time.RFC3339)
	}
	return result, nil
}
