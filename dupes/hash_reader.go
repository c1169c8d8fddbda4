package dupes

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/mmap"
	"lukechampine.com/blake3"
)

const (
	headHashBytes      = 64 * 1024
	hashBlockSize      = 256 * 1024
	defaultMmapMinSize = 128 * 1024
	digestSize         = 32
)

var openMmapReader = mmap.Open

// headHash returns an xxhash64 of the first headHashBytes of the file.
// Identical files always share a head hash, so it is a sound prefilter.
func headHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, io.LimitReader(file, headHashBytes)); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// contentDigest computes the BLAKE3-256 digest of the full file content,
// streamed in fixed blocks. Files at or above mmapMinSize go through a
// memory-mapped reader.
func contentDigest(path string, mmapMinSize int64) (string, error) {
	if mmapMinSize <= 0 {
		mmapMinSize = defaultMmapMinSize
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() >= mmapMinSize {
		if digest, err := mmapDigest(path, info.Size()); err == nil {
			return digest, nil
		}
		// Fall through to the stream path on any mmap failure.
	}
	return streamDigest(path)
}

func streamDigest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := blake3.New(digestSize, nil)
	buf := make([]byte, hashBlockSize)
	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n])
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return "", readErr
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func mmapDigest(path string, size int64) (string, error) {
	r, err := openMmapReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	h := blake3.New(digestSize, nil)
	buf := make([]byte, hashBlockSize)
	var off int64
	for off < size {
		n := int64(len(buf))
		if size-off < n {
			n = size - off
		}
		read, err := r.ReadAt(buf[:n], off)
		if read > 0 {
			_, _ = h.Write(buf[:read])
		}
		if err != nil && err != io.EOF {
			return "", err
		}
		if read == 0 {
			break
		}
		off += int64(read)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
