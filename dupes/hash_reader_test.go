package dupes

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestHeadHashMatchesForIdenticalPrefix(t *testing.T) {
	root := t.TempDir()
	prefix := bytes.Repeat([]byte("p"), headHashBytes)
	writeBytes(t, filepath.Join(root, "a"), append(append([]byte{}, prefix...), 'x'))
	writeBytes(t, filepath.Join(root, "b"), append(append([]byte{}, prefix...), 'y'))
	writeBytes(t, filepath.Join(root, "c"), []byte("entirely different"))

	ha, err := headHash(filepath.Join(root, "a"))
	if err != nil {
		t.Fatalf("headHash: %v", err)
	}
	hb, err := headHash(filepath.Join(root, "b"))
	if err != nil {
		t.Fatalf("headHash: %v", err)
	}
	hc, err := headHash(filepath.Join(root, "c"))
	if err != nil {
		t.Fatalf("headHash: %v", err)
	}
	if ha != hb {
		t.Error("files sharing the first block must share a head hash")
	}
	if ha == hc {
		t.Error("different content unexpectedly collided in the head hash")
	}
}

func TestContentDigestMmapAndStreamAgree(t *testing.T) {
	root := t.TempDir()
	content := make([]byte, 3*hashBlockSize+17)
	rand.New(rand.NewSource(1)).Read(content)
	path := filepath.Join(root, "large.bin")
	writeBytes(t, path, content)

	streamed, err := streamDigest(path)
	if err != nil {
		t.Fatalf("streamDigest: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	mapped, err := mmapDigest(path, info.Size())
	if err != nil {
		t.Fatalf("mmapDigest: %v", err)
	}
	if streamed != mapped {
		t.Errorf("stream digest %s != mmap digest %s", streamed, mapped)
	}

	// The public entry point picks the mmap path for a file this size.
	combined, err := contentDigest(path, 0)
	if err != nil {
		t.Fatalf("contentDigest: %v", err)
	}
	if combined != streamed {
		t.Errorf("contentDigest = %s, want %s", combined, streamed)
	}
}

func TestContentDigestSmallFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "small.txt")
	writeBytes(t, path, []byte("tiny"))

	digest, err := contentDigest(path, 0)
	if err != nil {
		t.Fatalf("contentDigest: %v", err)
	}
	if len(digest) != 64 {
		t.Errorf("digest %q is not a 256-bit hex string", digest)
	}

	empty := filepath.Join(root, "empty.txt")
	writeBytes(t, empty, nil)
	emptyDigest, err := contentDigest(empty, 0)
	if err != nil {
		t.Fatalf("contentDigest: %v", err)
	}
	if emptyDigest == digest {
		t.Error("empty file digest collided with non-empty content")
	}
}
