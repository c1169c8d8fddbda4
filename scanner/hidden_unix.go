//go:build !windows

package scanner

func isHidden(path, name string) bool {
	_ = path
	return len(name) > 0 && name[0] == '.'
}
